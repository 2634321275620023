// Package robot enrolls vendor robots and runs them on a schedule.
//
// A Registry maps "owner@vendor" keys to robots. Robots are built from
// configured accounts by per-vendor constructors; accounts of an unknown
// vendor get a DefaultRobot, which does nothing.
//
//	registry := robot.NewRegistry()
//	registry.RegisterVendor("QQ", newQQRobot)
//	if err := registry.Load(cfg.Robots); err != nil {
//	    log.Printf("some robots were not enrolled: %v", err)
//	}
//
// A Dispatcher drives the registry with two cron triggers, sign and
// process, each running the robots sequentially:
//
//	d := robot.NewDispatcher(registry, robot.WithRecorder(journal))
//	if err := d.Schedule(ctx, cfg.SignSchedule, cfg.ProcessSchedule); err != nil {
//	    log.Fatal(err)
//	}
//	d.Start()
//	defer d.Stop()
package robot
