package testutil

import "time"

// FullMonitor is the area list given to profiles built without Areas.
const FullMonitor = "* { x: 0px; y: 0px; width: 100%; height: 100%; }"

// profileData holds everything needed to save one profile.
type profileData struct {
	regex    string
	areas    string
	priority *int
	guid     string
	category string
	push     *pushData
}

type categoryData struct {
	name     string
	priority int
	enabled  bool
}

type pushData struct {
	address string
	at      time.Time
}

func defaultProfile(regex string) profileData {
	return profileData{regex: regex, areas: FullMonitor}
}

// ProfileOption configures a profile for the builder.
type ProfileOption func(*profileData)

// Areas sets the area specification text.
func Areas(text string) ProfileOption {
	return func(p *profileData) { p.areas = text }
}

// Priority sets the profile priority.
func Priority(n int) ProfileOption {
	return func(p *profileData) { p.priority = &n }
}

// GUID fixes the profile GUID instead of generating one.
func GUID(guid string) ProfileOption {
	return func(p *profileData) { p.guid = guid }
}

// Pushed records the profile as sent to address at the given time.
func Pushed(address string, at time.Time) ProfileOption {
	return func(p *profileData) { p.push = &pushData{address: address, at: at} }
}

// InCategory puts the profile in a category added with WithCategory.
func InCategory(name string) ProfileOption {
	return func(p *profileData) { p.category = name }
}
