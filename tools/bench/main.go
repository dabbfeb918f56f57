package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"sync"
	"time"
)

// -------------------- 统计 --------------------

type APITestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	AverageLatency     time.Duration
	MaxLatency         time.Duration
	MinLatency         time.Duration
	totalLatency       time.Duration
	mu                 sync.Mutex
}

func (s *APITestStats) Add(success bool, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalRequests++
	if !success {
		s.FailedRequests++
		return
	}
	s.SuccessfulRequests++
	s.totalLatency += latency
	s.AverageLatency = s.totalLatency / time.Duration(s.SuccessfulRequests)
	if s.SuccessfulRequests == 1 || latency > s.MaxLatency {
		s.MaxLatency = latency
	}
	if s.SuccessfulRequests == 1 || latency < s.MinLatency {
		s.MinLatency = latency
	}
}

func (s *APITestStats) SuccessRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.SuccessfulRequests) / float64(s.TotalRequests) * 100
}

// Report 按接口分组的统计
type Report struct {
	mu        sync.Mutex
	endpoints map[string]*APITestStats
}

func NewReport() *Report {
	return &Report{endpoints: make(map[string]*APITestStats)}
}

func (r *Report) Stats(name string) *APITestStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.endpoints[name]
	if !ok {
		s = &APITestStats{}
		r.endpoints[name] = s
	}
	return s
}

func (r *Report) Print(w io.Writer, took time.Duration) {
	r.mu.Lock()
	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	r.mu.Unlock()
	sort.Strings(names)

	fmt.Fprintln(w, "\n=== 压测结果 ===")
	fmt.Fprintf(w, "耗时: %v Goroutines: %d\n", took, runtime.NumGoroutine())
	for _, name := range names {
		s := r.Stats(name)
		fmt.Fprintf(w, "[%s] 总请求: %d 成功: %d 失败: %d 成功率: %.2f%%\n",
			name, s.TotalRequests, s.SuccessfulRequests, s.FailedRequests, s.SuccessRate())
		fmt.Fprintf(w, "  延迟 平均: %v 最大: %v 最小: %v", s.AverageLatency, s.MaxLatency, s.MinLatency)
		if took > 0 {
			fmt.Fprintf(w, " QPS: %.2f", float64(s.SuccessfulRequests)/took.Seconds())
		}
		fmt.Fprintln(w)
	}
}

func (r *Report) SaveToFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	_, _ = f.WriteString("Endpoint,Total,Success,Failed,AvgLatencyMs,MaxLatencyMs,MinLatencyMs\n")
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, s := range r.endpoints {
		line := fmt.Sprintf("%s,%d,%d,%d,%.2f,%.2f,%.2f\n", name,
			s.TotalRequests, s.SuccessfulRequests, s.FailedRequests,
			ms(s.AverageLatency), ms(s.MaxLatency), ms(s.MinLatency),
		)
		_, _ = f.WriteString(line)
	}
	return nil
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// -------------------- 客户端 --------------------

type benchClient struct {
	base   string
	http   *http.Client
	token  string
	userID uint
}

type authResponse struct {
	User struct {
		ID uint `json:"id"`
	} `json:"user"`
	AccessToken string `json:"accessToken"`
}

func (c *benchClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
		return resp.StatusCode, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// signIn 注册压测账号，已存在则登录
func (c *benchClient) signIn(ctx context.Context, username, pass string) error {
	var auth authResponse
	code, err := c.do(ctx, http.MethodPost, "/api/register",
		map[string]string{"username": username, "password": pass, "name": username}, &auth)
	if err != nil {
		return err
	}
	if code == http.StatusConflict {
		code, err = c.do(ctx, http.MethodPost, "/api/login",
			map[string]string{"username": username, "password": pass}, &auth)
		if err != nil {
			return err
		}
	}
	if code >= 300 || auth.AccessToken == "" {
		return fmt.Errorf("sign in %s: status %d", username, code)
	}
	c.token = auth.AccessToken
	c.userID = auth.User.ID
	return nil
}

func (c *benchClient) hit(ctx context.Context, stats *APITestStats, method, path string, body interface{}, want int) {
	start := time.Now()
	code, err := c.do(ctx, method, path, body, nil)
	if ctx.Err() != nil {
		return
	}
	stats.Add(err == nil && code == want, time.Since(start))
}

// poll 模拟聊天窗口轮询，定期浏览技能并发送消息
func (c *benchClient) poll(ctx context.Context, peer uint, interval time.Duration, report *Report) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for tick := 1; ; tick++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		c.hit(ctx, report.Stats("GET /api/messages/:userId"), http.MethodGet, fmt.Sprintf("/api/messages/%d", peer), nil, http.StatusOK)
		if tick%5 == 0 {
			c.hit(ctx, report.Stats("GET /api/skills"), http.MethodGet, "/api/skills?type=teach", nil, http.StatusOK)
		}
		if tick%10 == 0 {
			msg := map[string]interface{}{"receiverId": peer, "content": fmt.Sprintf("bench message %d", tick)}
			c.hit(ctx, report.Stats("POST /api/messages"), http.MethodPost, "/api/messages", msg, http.StatusCreated)
		}
	}
}

// -------------------- 入口 --------------------

func run(ctx context.Context, base string, clients int, duration, interval time.Duration, out io.Writer) (*Report, error) {
	fmt.Fprintln(out, "\n=== 轮询聊天压测开始 ===")
	fmt.Fprintf(out, "目标: %s 客户端: %d 时长: %v 轮询间隔: %v\n", base, clients, duration, interval)

	httpClient := &http.Client{Timeout: 8 * time.Second}
	stamp := time.Now().Unix()
	bench := make([]*benchClient, clients)
	for i := range bench {
		c := &benchClient{base: base, http: httpClient}
		if err := c.signIn(ctx, fmt.Sprintf("bench%d-%d@example.com", stamp, i), "bench-password"); err != nil {
			return nil, err
		}
		bench[i] = c
	}

	report := NewReport()
	runCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	for i, c := range bench {
		peer := bench[(i+1)%len(bench)].userID
		wg.Add(1)
		go func(c *benchClient) {
			defer wg.Done()
			c.poll(runCtx, peer, interval, report)
		}(c)
	}
	wg.Wait()

	report.Print(out, time.Since(start))
	return report, nil
}

func main() {
	base := flag.String("base", "http://localhost:8080", "server base URL")
	clients := flag.Int("clients", 10, "number of polling clients")
	duration := flag.Duration("duration", 30*time.Second, "benchmark duration")
	interval := flag.Duration("interval", time.Second, "poll interval per client")
	csvFile := flag.String("csv", "", "write per-endpoint results to this CSV file")
	flag.Parse()

	if *clients < 2 {
		*clients = 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := run(ctx, *base, *clients, *duration, *interval, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "压测失败: %v\n", err)
		os.Exit(1)
	}
	if *csvFile != "" {
		if err := report.SaveToFile(*csvFile); err != nil {
			fmt.Fprintf(os.Stderr, "保存结果失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("结果已保存到 %s\n", *csvFile)
	}
}
