package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mirkobrombin/go-guard/v1/guard"
)

var (
	concurrency = flag.Int("c", 50, "Concurrency")
	requests    = flag.Int("n", 100000, "Requests")
	target      = flag.String("target", "all", "Target: guard-value, guard-scope, mutex")
)

func main() {
	flag.Parse()

	targets := strings.Split(*target, ",")
	if *target == "all" {
		targets = []string{"guard-value", "guard-scope", "mutex"}
	}

	fmt.Printf("| %-12s | %-10s | %-12s | %-12s |\n", "System", "Ops/sec", "Avg Latency", "P99 Latency")
	fmt.Println("|:---|:---|:---|:---|")

	for _, t := range targets {
		runBenchmark(strings.TrimSpace(t))
	}
}

func runBenchmark(name string) {
	var op func()

	switch name {
	case "guard-value":
		v := guard.New(0)
		op = func() { v.Do(func(p *int) { *p++ }) }

	case "guard-scope":
		a := guard.New(0)
		b := guard.New(0)
		op = func() {
			s, err := guard.Enter(a, b)
			if err != nil {
				panic(err)
			}
			a.Do(func(p *int) { *p++ })
			b.Do(func(p *int) { *p++ })
			s.Exit()
		}

	case "mutex":
		var mu sync.Mutex
		n := 0
		op = func() {
			mu.Lock()
			n++
			mu.Unlock()
		}

	default:
		fmt.Printf("unknown target %q\n", name)
		return
	}

	perWorker := *requests / *concurrency
	latencies := make([][]time.Duration, *concurrency)

	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			lats := make([]time.Duration, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				t0 := time.Now()
				op()
				lats = append(lats, time.Since(t0))
			}
			latencies[w] = lats
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	var all []time.Duration
	for _, lats := range latencies {
		all = append(all, lats...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

	var sum time.Duration
	for _, l := range all {
		sum += l
	}
	avg := sum / time.Duration(len(all))
	p99 := all[len(all)*99/100]
	ops := float64(len(all)) / elapsed.Seconds()

	fmt.Printf("| %-12s | %-10.0f | %-12v | %-12v |\n", name, ops, avg, p99)
}
