// Package viewer opens a window on a sapling scene using [Ebitengine].
//
// Each tick runs the scene; each frame records it into a
// [sapling.CommandBuffer], rasterizes it and draws the result:
//
//	scene, err := sapling.ReadSceneFromFile("level.scene")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := viewer.Run(scene, viewer.RunConfig{Title: "level", Width: 800, Height: 600}); err != nil {
//		log.Fatal(err)
//	}
//
// The first camera in the scene can be driven with the keyboard: W/S move
// along its forward vector, A/D turn it, Q/E move it down and up. F12 saves a
// screenshot to RunConfig.ScreenshotDir and Escape closes the window.
//
// Run closes the scene on exit; with RunConfig.AutoSave (or Scene.AutoSave)
// set, that writes it back to its file.
//
// [Ebitengine]: https://ebitengine.org
package viewer
