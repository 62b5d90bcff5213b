// Package proxy implements the relay server that keeps API credentials off
// the client: it forwards generation requests to DashScope and database
// requests to the Notion API.
package proxy

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/cors"

	"github.com/djantao/agentAI/internal/inference"
	"github.com/djantao/agentAI/internal/inference/qwen"
)

const (
	dashScopeURL  = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"
	notionBaseURL = "https://api.notion.com/v1"
	notionVersion = "2022-06-28"
	defaultModel  = "qwen-turbo"
)

// Config holds the proxy's upstream settings. The URLs default to the real
// services.
type Config struct {
	NotionAPIKey   string
	DashScopeURL   string
	NotionBaseURL  string
	AllowedOrigins []string
}

// Server relays /qwen and /notion requests to their upstream services.
type Server struct {
	config     Config
	httpClient *resty.Client
	logger     *slog.Logger
}

func NewServer(config Config, logger *slog.Logger) *Server {
	if config.DashScopeURL == "" {
		config.DashScopeURL = dashScopeURL
	}
	if config.NotionBaseURL == "" {
		config.NotionBaseURL = notionBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:     config,
		httpClient: resty.New(),
		logger:     logger,
	}
}

// Handler wires up routing and CORS. Origins default to allow-all, matching
// a public relay deployment.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/qwen", s.handleQwen)
	mux.HandleFunc("/notion/", s.handleNotion)

	options := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}
	if len(s.config.AllowedOrigins) > 0 {
		options.AllowedOrigins = s.config.AllowedOrigins
	}
	return cors.New(options).Handler(mux)
}

type generateRequest struct {
	Messages []inference.Message `json:"messages"`
	APIKey   string              `json:"apiKey"`
	Model    string              `json:"model"`
}

type dashScopeRequest struct {
	Model      string              `json:"model"`
	Input      dashScopeInput      `json:"input"`
	Parameters dashScopeParameters `json:"parameters"`
}

type dashScopeInput struct {
	Prompt string `json:"prompt"`
}

type dashScopeParameters struct {
	ResultFormat string `json:"result_format"`
}

func (s *Server) handleQwen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request generateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSONError(w, http.StatusBadRequest, "无法解析请求体")
		return
	}
	if len(request.Messages) == 0 || request.APIKey == "" {
		writeJSONError(w, http.StatusBadRequest, "缺少必要参数")
		return
	}

	model := request.Model
	if model == "" {
		model = defaultModel
	}

	res, err := s.httpClient.R().
		SetContext(r.Context()).
		SetHeader("Authorization", "Bearer "+request.APIKey).
		SetBody(dashScopeRequest{
			Model:      model,
			Input:      dashScopeInput{Prompt: qwen.FormatPrompt(request.Messages)},
			Parameters: dashScopeParameters{ResultFormat: "text"},
		}).
		Post(s.config.DashScopeURL)
	if err != nil {
		s.logger.Error("generation upstream unreachable", "error", err)
		writeJSONError(w, http.StatusBadGateway, "生成服务不可用")
		return
	}

	relay(w, res.StatusCode(), res.Body())
}

func (s *Server) handleNotion(w http.ResponseWriter, r *http.Request) {
	if s.config.NotionAPIKey == "" {
		writeJSONError(w, http.StatusInternalServerError, "Notion API密钥未配置")
		return
	}

	endpoint := strings.TrimPrefix(r.URL.Path, "/notion")
	request := s.httpClient.R().
		SetContext(r.Context()).
		SetHeader("Authorization", "Bearer "+s.config.NotionAPIKey).
		SetHeader("Notion-Version", notionVersion)

	if r.Method != http.MethodGet && r.Method != http.MethodDelete {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "无法读取请求体")
			return
		}
		request.SetHeader("Content-Type", "application/json")
		request.SetBody(body)
	}

	res, err := request.Execute(r.Method, s.config.NotionBaseURL+endpoint)
	if err != nil {
		s.logger.Error("notion upstream unreachable", "error", err)
		writeJSONError(w, http.StatusBadGateway, "Notion 服务不可用")
		return
	}

	relay(w, res.StatusCode(), res.Body())
}

func relay(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
