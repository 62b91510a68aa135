package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/zalenik/cell"
)

var (
	scopeCounts = []int{1, 10, 100}
	eventCounts = []int{1, 10, 100}
	iters       = 100
)

func main() {
	flag.Parse()

	f, err := os.Create("default.pgo")
	if err != nil {
		log.Fatal(err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		log.Fatal(err)
	}
	defer pprof.StopCPUProfile()

	log.Printf("warming up")
	benchmarkObserve(false)
	benchmarkCommand(false)

	benchmarkObserve(true)
	benchmarkCommand(true)
}

func benchmarkObserve(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Observable Cells")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range scopeCounts {
		for _, h := range eventCounts {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			subject := cell.NewSubject[int]()
			scopes := make([]*cell.Scope, w)
			for i := 0; i < w; i++ {
				scope := cell.NewScope(func() {
					cell.UseObservable(func() cell.Source[int] { return subject })
				})
				scope.Mount()
				scopes[i] = scope
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				for j := 0; j < h; j++ {
					subject.Next(i*h + j)
				}
				tach.AddTime(time.Since(start))
			}

			for _, scope := range scopes {
				scope.Unmount()
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("emit: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkCommand(shouldRender bool) {
	ctx := context.Background()

	tbl := table.NewWriter()
	tbl.SetTitle("Commands")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range scopeCounts {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		commands := make([]*cell.Command[int], w)
		scopes := make([]*cell.Scope, w)
		for i := 0; i < w; i++ {
			i := i
			scope := cell.NewScope(func() {
				cmd := cell.UseCommand(func(context.Context) (int, error) {
					return i, nil
				})
				commands[i] = &cmd
			})
			scope.Mount()
			scopes[i] = scope
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			for _, cmd := range commands {
				cmd.Invoke(ctx)
			}
			tach.AddTime(time.Since(start))
		}

		for _, scope := range scopes {
			scope.Unmount()
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("invoke: %d", w),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	if shouldRender {
		tbl.Render()
	}
}
