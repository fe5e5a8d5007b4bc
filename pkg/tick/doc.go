/*
Package tick provides the free-running counter type used by ticktask and the
wraparound-safe arithmetic every deadline comparison goes through.

A Tick is a 32-bit unsigned reading of a counter that counts milliseconds or
microseconds and silently wraps to zero after 2^32 ticks (about 49.7 days in
milliseconds, about 71.6 minutes in microseconds). Ordinary comparison of two
readings breaks once the counter has wrapped between them, so ordering is
decided by the sign of their difference instead:

	Diff(deadline, now) <= 0  // deadline has been reached

This is correct as long as the two readings are less than 2^31 ticks apart,
which is why MaxHorizon bounds how far ahead a deadline may be placed.

Sources:

A Source supplies the current Millis and Micros readings. SystemSource derives
them from the process monotonic clock, OffsetSource shifts another source (handy
for starting a counter just before the wrap point), and RedisSource reads the
Redis TIME command so several processes share one timebase.
*/
package tick
