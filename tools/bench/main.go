package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// 简单压测工具：并发注册/登录一批用户并互发好友请求，输出延迟统计

type stats struct {
	mu        sync.Mutex
	latencies []time.Duration
	failed    int
}

func (s *stats) add(latency time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.latencies = append(s.latencies, latency)
	} else {
		s.failed++
	}
}

func (s *stats) report(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.latencies) == 0 {
		fmt.Printf("%-24s no successful requests (failed=%d)\n", name, s.failed)
		return
	}
	sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })
	var sum time.Duration
	for _, l := range s.latencies {
		sum += l
	}
	n := len(s.latencies)
	fmt.Printf("%-24s n=%d failed=%d avg=%v p50=%v p95=%v max=%v\n",
		name, n, s.failed,
		sum/time.Duration(n),
		s.latencies[n/2],
		s.latencies[n*95/100],
		s.latencies[n-1],
	)
}

var client = &http.Client{Timeout: 8 * time.Second}

func postForm(base, path string, form url.Values) (map[string]interface{}, int, error) {
	resp, err := client.Post(base+path, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	var body map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return body, resp.StatusCode, nil
}

func get(base, path, token string) (int, error) {
	req, err := http.NewRequest(http.MethodGet, base+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func main() {
	base := flag.String("base", "http://localhost:4000", "server base URL")
	users := flag.Int("users", 50, "number of users to register")
	flag.Parse()

	run := time.Now().Unix()
	registerStats := &stats{}
	loginStats := &stats{}
	requestStats := &stats{}

	// 阶段1：并发注册
	var wg sync.WaitGroup
	tokens := make([]string, *users)
	names := make([]string, *users)
	for i := 0; i < *users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			username := fmt.Sprintf("bench_%d_%d", run, i)
			names[i] = username
			form := url.Values{
				"username":  {username},
				"firstName": {"Bench"},
				"lastName":  {"User"},
				"email":     {username + "@bench.local"},
				"password":  {"benchpass"},
			}
			start := time.Now()
			_, code, err := postForm(*base, "/api/register", form)
			registerStats.add(time.Since(start), err == nil && code == 200)
		}(i)
	}
	wg.Wait()

	// 阶段2：并发登录
	for i := 0; i < *users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			form := url.Values{
				"username": {names[i]},
				"password": {"benchpass"},
			}
			start := time.Now()
			body, code, err := postForm(*base, "/api/login", form)
			ok := err == nil && code == 200
			if ok {
				if t, found := body["token"].(string); found {
					tokens[i] = t
				} else {
					ok = false
				}
			}
			loginStats.add(time.Since(start), ok)
		}(i)
	}
	wg.Wait()

	// 阶段3：每个用户向下一个用户发送好友请求
	for i := 0; i < *users; i++ {
		if tokens[i] == "" {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			friend := names[(i+1)%*users]
			start := time.Now()
			code, err := get(*base, "/api/send-friend-request?friendUsername="+url.QueryEscape(friend), tokens[i])
			requestStats.add(time.Since(start), err == nil && code == 200)
		}(i)
	}
	wg.Wait()

	fmt.Printf("\n=== bench results (users=%d) ===\n", *users)
	registerStats.report("register")
	loginStats.report("login")
	requestStats.report("send-friend-request")
}
