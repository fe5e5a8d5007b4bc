package cronplan_test

import (
	"fmt"
	"time"

	"github.com/vnykmshr/ticktask/pkg/scheduling/cronplan"
	"github.com/vnykmshr/ticktask/pkg/scheduling/deferred"
	"github.com/vnykmshr/ticktask/pkg/tick"
)

// frozen is a counter that never moves.
type frozen tick.Tick

func (f frozen) Millis() tick.Tick { return tick.Tick(f) }
func (f frozen) Micros() tick.Tick { return tick.Tick(f) }

// Example arms a task for the next quarter hour.
func Example() {
	now := time.Date(2026, time.March, 2, 9, 10, 0, 0, time.UTC)

	plan, err := cronplan.New("*/15 * * * *", deferred.Plain(func() { fmt.Println("report") }),
		cronplan.WithLocation(time.UTC),
		cronplan.WithTaskOptions(deferred.WithSource(frozen(0))))
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := plan.Arm(now); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(plan.Next().Format(time.Kitchen))
	fmt.Println(time.Duration(plan.Task().Remaining()) * time.Millisecond)

	// Output:
	// 9:15AM
	// 5m0s
}

// Example_horizon shows a schedule too sparse for the microsecond timebase.
func Example_horizon() {
	plan, _ := cronplan.New("@hourly", nil, cronplan.WithTaskOptions(deferred.WithMicros()))

	err := plan.Arm(time.Now())
	fmt.Println(err != nil, plan.Task().Active())

	// Output: true false
}
