// Package globeclock renders a desktop clock: a day/night shaded globe that
// turns with UTC time under an analog clock face showing local time.
//
// # Quick Start
//
//	cfg, err := globeclock.LoadConfigFromEnv(globeclock.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	scene, err := globeclock.NewScene(gc, window, surface, cfg)
//	if err != nil {
//	    return err
//	}
//	defer scene.Destroy()
//
//	for !closed {
//	    if err := scene.Redraw(time.Now()); err != nil {
//	        return err
//	    }
//	}
//
// # Layers
//
// Each frame draws three layers in a fixed order so later ones blend over
// earlier ones:
//   - background: clears to [Config.Background]
//   - globe: a sphere shaded on the GPU from day and night textures, lit by
//     a sun whose position follows the time of day and the season
//   - clock face: ticks and hands rasterized on the CPU with gg and uploaded
//     as a texture every frame
//
// # Coordinate System
//
// The globe and clock share a square drawing space spanning [-1, 1] on both
// axes. The viewport projection shrinks the longer window axis so the square
// stays undistorted and centred.
//
// # Surface Handling
//
// A lost surface is reconfigured and the frame retried once. Timeouts and
// outdated surfaces skip the frame. Other errors are returned from
// [Scene.Redraw].
package globeclock
