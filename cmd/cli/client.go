package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// callerHeader 调用方身份请求头，与节点中间件约定一致
const callerHeader = "X-TDL-Caller"

// apiClient 节点REST API的薄客户端
//
// 所有请求走 /api/v1 前缀，调用方身份通过请求头透传，
// 非2xx响应的 {"error": "..."} 消息原样转为Go错误。
type apiClient struct {
	baseURL string
	caller  string
	http    *http.Client
}

// newAPIClient 创建API客户端
func newAPIClient(node, caller string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(node, "/") + "/api/v1",
		caller:  caller,
		http:    &http.Client{Timeout: timeout},
	}
}

// errorBody 节点错误响应体
type errorBody struct {
	Error string `json:"error"`
}

// do 执行一次JSON往返
// body为nil时不携带请求体；out为nil时丢弃响应体
func (c *apiClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求体: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("构建请求: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.caller != "" {
		req.Header.Set(callerHeader, c.caller)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("请求节点 %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if err := json.Unmarshal(data, &eb); err == nil && eb.Error != "" {
			return fmt.Errorf("%s (HTTP %d)", eb.Error, resp.StatusCode)
		}
		return fmt.Errorf("节点返回 HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("解析响应: %w", err)
		}
	}
	return nil
}

// Get 发起GET请求
func (c *apiClient) Get(path string, out interface{}) error {
	return c.do(http.MethodGet, path, nil, out)
}

// Post 发起POST请求
func (c *apiClient) Post(path string, body, out interface{}) error {
	return c.do(http.MethodPost, path, body, out)
}

// Put 发起PUT请求
func (c *apiClient) Put(path string, body, out interface{}) error {
	return c.do(http.MethodPut, path, body, out)
}

// Delete 发起DELETE请求
func (c *apiClient) Delete(path string, out interface{}) error {
	return c.do(http.MethodDelete, path, nil, out)
}

// pathEscape 路径段转义（身份、代币键等可能含特殊字符）
func pathEscape(segment string) string {
	return url.PathEscape(segment)
}

// printResult 按全局输出格式打印结果
func printResult(v interface{}) error {
	var data []byte
	var err error

	switch globalFlags.OutputFormat {
	case "json":
		data, err = json.Marshal(v)
	default: // pretty
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("格式化输出: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

// printOK 写操作成功后的提示（静默模式下省略）
func printOK(format string, args ...interface{}) {
	if globalFlags.Silent {
		return
	}
	fmt.Fprintf(os.Stderr, "✅ "+format+"\n", args...)
}
