package aico

import (
	"bytes"
	"dialog-faq-backend/config"
	"dialog-faq-backend/utils"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// 与upload的split_config.type对齐，3为按行切分
const fileTypeByLine = 3

// FlexInt 兼容数字与数字字符串两种JSON形态的整数字段
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer value %q: %v", s, err)
	}
	*f = FlexInt(n)
	return nil
}

// FileInfo AICO文件列表中的一项
type FileInfo struct {
	ID       FlexInt `json:"id"`
	FileName string  `json:"file_name"`

	// 切分状态，不同版本字段名不同
	IsSlice        *FlexInt `json:"is_slice"`
	SliceStatus    *FlexInt `json:"slice_status"`
	SliceStatusAlt *FlexInt `json:"sliceStatus"`
}

// SplitStatus 取文件的切分状态码，多个字段名逐个回退
func (f FileInfo) SplitStatus() (int, bool) {
	for _, v := range []*FlexInt{f.IsSlice, f.SliceStatus, f.SliceStatusAlt} {
		if v != nil {
			return int(*v), true
		}
	}
	return 0, false
}

type tokenResponse struct {
	Code int `json:"code"`
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

type searchResponse struct {
	Data []struct {
		ID FlexInt `json:"id"`
	} `json:"data"`
}

type errCodeResponse struct {
	ErrCode *int `json:"err_code"`
}

type fileListResponse struct {
	ErrCode *int       `json:"err_code"`
	Data    []FileInfo `json:"data"`
}

// Client AICO知识库服务的HTTP客户端
type Client struct {
	host               string
	userPort           int
	projectPort        int
	kbPort             int
	fileDeleteEndpoint string
	httpClient         *http.Client
}

func NewClient() *Client {
	cfg := config.Cfg.Aico
	return &Client{
		host:               cfg.Host,
		userPort:           cfg.UserPort,
		projectPort:        cfg.ProjectPort,
		kbPort:             cfg.KBPort,
		fileDeleteEndpoint: cfg.FileDeleteEndpoint,
		httpClient:         utils.NewHTTPClient(utils.WithTimeout(cfg.Timeout())),
	}
}

// GenerateToken 获取用户token
func (c *Client) GenerateToken(username string, userID int) (string, error) {
	endpoint := fmt.Sprintf("http://%s:%d/aicoapi/user/generate_user_token", c.host, c.userPort)
	payload := map[string]any{"username": username, "user_id": userID}

	body, err := c.postJSON(endpoint, "", payload)
	if err != nil {
		return "", err
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse token response: %v", err)
	}
	if parsed.Code != 200 || parsed.Data.Token == "" {
		return "", fmt.Errorf("unexpected token response: %s", body)
	}
	return parsed.Data.Token, nil
}

// SearchProject 按名称查询项目，取第一个匹配项的id
func (c *Client) SearchProject(token, projectName string) (int, error) {
	endpoint := fmt.Sprintf("http://%s:%d/api/project_manage/projects/search_project", c.host, c.projectPort)
	params := url.Values{"project_name": {projectName}}

	body, err := c.get(endpoint+"?"+params.Encode(), token)
	if err != nil {
		return 0, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse project search response: %v", err)
	}
	if len(parsed.Data) == 0 {
		return 0, fmt.Errorf("no project found for name %s", projectName)
	}
	return int(parsed.Data[0].ID), nil
}

// SearchKB 在项目范围内按名称查询知识库，取第一个匹配项的id
func (c *Client) SearchKB(token string, pid int, kbName string) (int, error) {
	endpoint := fmt.Sprintf("http://%s:%d/aicoapi/kb_manage/kbm/search_kb", c.host, c.kbPort)
	params := url.Values{
		"pid":       {strconv.Itoa(pid)},
		"view_type": {"personal"},
		"kb_name":   {kbName},
	}

	body, err := c.get(endpoint+"?"+params.Encode(), token)
	if err != nil {
		return 0, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse kb search response: %v", err)
	}
	if len(parsed.Data) == 0 {
		return 0, fmt.Errorf("no knowledge base found for name %s", kbName)
	}
	return int(parsed.Data[0].ID), nil
}

// ListFiles 按标题查询知识库文件列表，title为空时拉取全量
func (c *Client) ListFiles(token string, pid, kbID int, title string) ([]FileInfo, error) {
	endpoint := fmt.Sprintf("http://%s:%d/aicoapi/knowledge_manage/file/show", c.host, c.kbPort)
	payload := map[string]any{
		"title":     title,
		"pid":       pid,
		"kb_id":     strconv.Itoa(kbID),
		"view_type": "personal",
		"type":      strconv.Itoa(fileTypeByLine),
	}

	body, err := c.postJSON(endpoint, token, payload)
	if err != nil {
		return nil, err
	}

	var parsed fileListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse file list response: %v", err)
	}
	if parsed.ErrCode != nil && *parsed.ErrCode != 0 {
		return nil, fmt.Errorf("file list failed: %s", body)
	}
	return parsed.Data, nil
}

// DeleteFiles 批量删除文件
func (c *Client) DeleteFiles(token string, pid, kbID, userID int, fileIDs []int) error {
	endpoint := fmt.Sprintf("http://%s:%d%s", c.host, c.kbPort, c.fileDeleteEndpoint)
	payload := map[string]any{
		"user_id":   userID,
		"user_uuid": "",
		"file_ids":  fileIDs,
		"pid":       pid,
		"kb_id":     strconv.Itoa(kbID),
	}

	req, err := c.newJSONRequest(endpoint, token, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Login-Type", "NORMAL")

	body, err := c.do(req)
	if err != nil {
		return err
	}
	return checkErrCode(body, "delete files")
}

// UploadFile 上传导出文件，携带切分配置与自动化上传标记
func (c *Client) UploadFile(token string, pid, kbID int, fileName string, content []byte) error {
	endpoint := fmt.Sprintf("http://%s:%d/aicoapi/knowledge_manage/file/upload", c.host, c.kbPort)

	splitConfig, err := json.Marshal(map[string]any{
		"pid":       pid,
		"kb_id":     strconv.Itoa(kbID),
		"keep_img":  false,
		"type":      fileTypeByLine,
		"user_id":   999,
		"user_uuid": "",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal split config: %v", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"pid":    strconv.Itoa(pid),
		"kb_id":  strconv.Itoa(kbID),
		"source": "1",

		// 覆盖同名文件
		"oper": "1",

		// 上传时即触发切分
		"seprate":      "1",
		"split_config": string(splitConfig),

		// 标记为自动化任务上传
		"is_auto": "true",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %v", key, err)
		}
	}

	part, err := writer.CreateFormFile("files", fileName)
	if err != nil {
		return fmt.Errorf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("failed to write file content: %v", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	body, err := c.do(req)
	if err != nil {
		return err
	}
	return checkErrCode(body, "upload")
}

// Online 上线整个知识库中待发布的内容，id_list为空表示全部
func (c *Client) Online(token string, pid, kbID int) error {
	endpoint := fmt.Sprintf("http://%s:%d/aicoapi/knowledge_manage/knowledge/online", c.host, c.kbPort)
	payload := map[string]any{
		"kb_id":   strconv.Itoa(kbID),
		"pid":     pid,
		"id_list": []int{},
	}

	body, err := c.postJSON(endpoint, token, payload)
	if err != nil {
		return err
	}
	return checkErrCode(body, "online")
}

func (c *Client) newJSONRequest(endpoint, token string, payload any) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) postJSON(endpoint, token string, payload any) ([]byte, error) {
	req, err := c.newJSONRequest(endpoint, token, payload)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) get(endpoint, token string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %v", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %v", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s returned status %d: %s", req.URL.Path, resp.StatusCode, body)
	}
	return body, nil
}

// err_code为0或缺失视为成功
func checkErrCode(body []byte, operation string) error {
	var parsed errCodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// 部分端点成功时返回非JSON内容
		return nil
	}
	if parsed.ErrCode != nil && *parsed.ErrCode != 0 {
		return fmt.Errorf("%s failed: %s", operation, body)
	}
	return nil
}
