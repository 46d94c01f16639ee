// nolint: revive
package utils

import (
	// 外部依赖
	"fmt"
	"runtime/debug"
	"sync"

	ants "github.com/panjf2000/ants/v2"
)

func SafelyRun(function func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w\n%s", e, string(debug.Stack()))
			} else {
				err = fmt.Errorf("unknown panic\n%s", string(debug.Stack()))
			}
		}
	}()

	function()

	return nil
}

func SafelyGo(function func(), handleError func(error)) {
	go func() {
		err := SafelyRun(function)
		if err != nil {
			handleError(err)
		}
	}()
}

// IfErrReturn 依次执行，遇到第一个 error 即返回
func IfErrReturn(fns ...func() error) error {
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

var statPool *ants.Pool

func init() {
	// 只读统计查询共用的小协程池
	statPool, _ = ants.NewPool(16)
}

// ParallelRun 在协程池上并发执行全部任务，返回第一个 error
// 任务内 panic 会被吞掉并转成 error，不影响其他任务
func ParallelRun(fns ...func() error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil && err != nil {
			firstErr = err
		}
	}

	for _, fn := range fns {
		fn := fn
		wg.Add(1)
		task := func() {
			defer wg.Done()
			record(SafelyRun(func() { record(fn()) }))
		}
		if err := statPool.Submit(task); err != nil {
			// 池不可用时退化为同步执行
			task()
		}
	}

	wg.Wait()
	return firstErr
}
