package testutil

// WithStandardTestData adds two categories and four profiles:
//
//	"video" priority 8, enabled
//	"games" priority 20, disabled
//
//	1 "^mpv"    priority 10, a 2560x1440 letterbox area and a half-screen "*"
//	2 "YouTube" priority 5, a cropped "*" area, in "video"
//	3 ".*"      no priority, the whole monitor
//	4 "Steam"   no priority, the whole monitor, in "games"
func (b *Builder) WithStandardTestData() *Builder {
	return b.
		WithCategory("video", 8, true).
		WithCategory("games", 20, false).
		WithProfile("^mpv",
			Priority(10),
			Areas("2560x1440 { x: 0px; y: 180px; width: 2560px; height: 1080px; }\n"+
				"* { x: 0px; y: 0px; width: 50%; height: 50%; }")).
		WithProfile("YouTube",
			Priority(5),
			InCategory("video"),
			Areas("* { x: 0px; y: 12.5%; width: 100%; height: 75%; }")).
		WithProfile(".*").
		WithProfile("Steam", InCategory("games"))
}
