package extraction

import (
	"bytes"
	"dialog-faq-backend/config"
	"dialog-faq-backend/utils"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// errMalformedReply 网关应答结构无法解释，重试不会改变结果
var errMalformedReply = errors.New("malformed chatbot reply")

type chatbotRequest struct {
	Query  string `json:"query"`
	Stream bool   `json:"stream"`
}

// chatbot网关兼容两种返回格式：data.text[0] 与 data.data.output
type chatbotResponse struct {
	Data struct {
		Text []string `json:"text"`
		Data struct {
			Output *string `json:"output"`
		} `json:"data"`
	} `json:"data"`
}

// callChatbot 调用AICO chatbot网关，url为空时使用配置的提取端点
func callChatbot(query, url string) (string, error) {
	if config.Cfg.Aico.ChatbotAPIKey == "" {
		return "", fmt.Errorf("aico chatbot api key is not configured")
	}
	if url == "" {
		url = config.Cfg.Aico.ChatbotURL
	}

	payload, err := json.Marshal(chatbotRequest{Query: query, Stream: false})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chatbot request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chatbot request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+config.Cfg.Aico.ChatbotAPIKey)

	client := utils.NewHTTPClient(utils.WithTimeout(config.Cfg.Aico.Timeout()))
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chatbot request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chatbot response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chatbot returned status %d: %s", resp.StatusCode, body)
	}

	var parsed chatbotResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", errMalformedReply, err)
	}

	if len(parsed.Data.Text) > 0 {
		return parsed.Data.Text[0], nil
	}
	if parsed.Data.Data.Output != nil {
		return *parsed.Data.Data.Output, nil
	}

	return "", fmt.Errorf("%w: missing expected text/output field: %s", errMalformedReply, body)
}
