package vectrace

import "sync"

// forEach calls fn for every index in [0, n) from at most workers
// goroutines and returns once all calls are done. The regions of an image
// share no state, so fn may run them in any order.
func forEach(n, workers int, fn func(i int)) {
	if n == 0 {
		return
	}
	if workers <= 0 || workers > n {
		workers = n
	}
	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
