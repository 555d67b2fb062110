// Package bench 用连接池向服务端并发发送命令，统计每种命令的吞吐
package bench

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	pool "github.com/jolestar/go-commons-pool/v2"
	"github.com/jujunwang/Minidis/lib/logger"
	"github.com/jujunwang/Minidis/resp/client"
)

// Config 存储压测的参数
type Config struct {
	Addr string
	// 并发的连接数
	Clients int
	// 每个场景发送的命令数
	Requests int
	// key 的取值范围
	KeySpace int
	// 单次请求的超时
	Timeout time.Duration
}

// Scenario 是一种命令，Line 根据序号生成命令行
type Scenario struct {
	Name string
	Line func(i int) string
}

// Result 是一个场景的统计结果
type Result struct {
	Name     string
	Requests int
	Errors   int
	Elapsed  time.Duration
}

// OpsPerSec 返回每秒成功的命令数
func (r Result) OpsPerSec() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Requests-r.Errors) / r.Elapsed.Seconds()
}

func (r Result) String() string {
	return fmt.Sprintf("%-12s %8d requests %6d errors %10.2f ops/sec", r.Name, r.Requests, r.Errors, r.OpsPerSec())
}

// DefaultScenarios 返回覆盖字符串和链表命令的场景
func DefaultScenarios(keySpace int) []Scenario {
	if keySpace <= 0 {
		keySpace = 1
	}
	key := func(i int) int { return i % keySpace }
	return []Scenario{
		{Name: "SET", Line: func(i int) string { return fmt.Sprintf("SET key:%d value:%d", key(i), i) }},
		{Name: "GET", Line: func(i int) string { return fmt.Sprintf("GET key:%d", key(i)) }},
		{Name: "LPUSHBACK", Line: func(i int) string { return fmt.Sprintf("LPUSHBACK list:%d %d", key(i), i) }},
		{Name: "LGET", Line: func(i int) string { return fmt.Sprintf("LGET list:%d 0", key(i)) }},
		{Name: "LPOPFRONT", Line: func(i int) string { return fmt.Sprintf("LPOPFRONT list:%d", key(i)) }},
		{Name: "DEL", Line: func(i int) string { return fmt.Sprintf("DEL key:%d", key(i)) }},
	}
}

// Runner 在一个连接池上依次运行各个场景
type Runner struct {
	cfg  Config
	pool *pool.ObjectPool
}

// NewRunner 新建 Runner，连接在第一次使用时建立
func NewRunner(ctx context.Context, cfg Config) *Runner {
	if cfg.Clients <= 0 {
		cfg.Clients = 1
	}
	return &Runner{
		cfg:  cfg,
		pool: newClientPool(ctx, cfg.Addr, cfg.Clients),
	}
}

// Run 用 Clients 个 goroutine 发送 Requests 条命令
// 出错的连接会被销毁，池中的其他连接不受影响
func (r *Runner) Run(ctx context.Context, s Scenario) Result {
	var next, failed int64
	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < r.cfg.Clients; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := atomic.AddInt64(&next, 1) - 1
				if i >= int64(r.cfg.Requests) {
					return
				}
				if err := r.send(ctx, s.Line(int(i))); err != nil {
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}
	wg.Wait()
	return Result{
		Name:     s.Name,
		Requests: r.cfg.Requests,
		Errors:   int(failed),
		Elapsed:  time.Since(start),
	}
}

func (r *Runner) send(ctx context.Context, line string) error {
	obj, err := r.pool.BorrowObject(ctx)
	if err != nil {
		return err
	}
	c := obj.(*client.Client)
	c.SetTimeout(r.cfg.Timeout)
	if _, err := c.Send(line); err != nil {
		logger.Debug("bench send: ", err)
		_ = r.pool.InvalidateObject(ctx, obj)
		return err
	}
	return r.pool.ReturnObject(ctx, obj)
}

// RunAll 依次运行所有场景
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, r.Run(ctx, s))
	}
	return results
}

// Close 关闭池中的所有连接
func (r *Runner) Close(ctx context.Context) {
	r.pool.Close(ctx)
}
