/*
Package loop provides a host control loop for deferred tasks.

Deferred tasks never run on their own: something has to call Poll on each of
them, over and over. Runner is that something for programs that have nothing
better to do between firings. It polls every task in the order they were added,
then idles until the earliest pending deadline (bounded by MinIdle and MaxIdle),
and repeats until its context is done.

	runner, err := loop.New(loop.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}
	runner.Add(blink)
	runner.Add(report)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	_ = runner.Run(ctx)

Programs that already own a control loop can call PollOnce from it and use
NextIdle to decide how long they may sleep.

Configuration:

LoadConfig reads the configuration from the environment, after loading a .env
file from the working directory if one exists:

	TICKTASK_NAME      loop name used in logs and metrics (default "loop")
	TICKTASK_MAX_IDLE  longest idle between passes (default 10ms)
	TICKTASK_MIN_IDLE  shortest idle between passes (default 0)

A Runner polls from a single goroutine and calls every callback on it, so the
single-threaded contract of the tasks is preserved. Add must not be called
while Run is active.
*/
package loop
