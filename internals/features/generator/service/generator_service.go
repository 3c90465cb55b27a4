// file: internals/features/generator/service/generator_service.go
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"soalklinis_backend/internals/features/questions/dto"
)

const (
	defaultEndpoint = "https://api.x.ai/v1/chat/completions"
	defaultModel    = "grok-3"
	defaultTimeout  = 60 * time.Second

	systemPrompt = "You are an expert medical question generator for a clinical education app. " +
		"Your job is to create new, high-quality clinical case questions (with scenario, options, " +
		"correct answer, discussion, and learning objective) for Indonesian medical students, " +
		"following strict academic and clinical standards."
)

// ErrUpstream marks generation failures caused by the Grok API rather
// than by this service; callers surface them as 5xx.
var ErrUpstream = errors.New("grok api error")

type GeneratorService struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

type Option func(*GeneratorService)

// WithEndpoint overrides the chat-completions URL (tests).
func WithEndpoint(url string) Option {
	return func(s *GeneratorService) {
		if url != "" {
			s.endpoint = url
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *GeneratorService) {
		if c != nil {
			s.client = c
		}
	}
}

func NewGeneratorService(apiKey string, opts ...Option) *GeneratorService {
	s := &GeneratorService{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		model:    defaultModel,
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

// Generate asks Grok for a replacement question testing the same
// diagnosis as the original. The context bounds latency; pass one with a
// deadline, the upstream call has no protocol-level timeout of its own.
func (s *GeneratorService) Generate(ctx context.Context, original dto.DraftQuestion) (*dto.DraftQuestion, error) {
	payload := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(original)},
		},
		MaxTokens:   4000,
		Temperature: 0.9,
		Stream:      false,
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, raw)
	}

	return extractDraft(raw)
}

// extractDraft handles the response shapes Grok has been seen to return:
// the question object directly, an OpenAI-style choices/message/content
// envelope with JSON in the content, or a {result: {...}} wrapper.
func extractDraft(raw []byte) (*dto.DraftQuestion, error) {
	var direct dto.DraftQuestion
	if err := sonic.Unmarshal(raw, &direct); err == nil && direct.Complete() {
		return &direct, nil
	}

	var wrapped struct {
		Result *dto.DraftQuestion `json:"result"`
	}
	if err := sonic.Unmarshal(raw, &wrapped); err == nil && wrapped.Result != nil && wrapped.Result.Complete() {
		return wrapped.Result, nil
	}

	var envelope struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := sonic.Unmarshal(raw, &envelope); err == nil && len(envelope.Choices) > 0 {
		var parsed dto.DraftQuestion
		if err := sonic.Unmarshal([]byte(envelope.Choices[0].Message.Content), &parsed); err != nil {
			return nil, fmt.Errorf("%w: parse content: %v", ErrUpstream, err)
		}
		return &parsed, nil
	}

	return nil, fmt.Errorf("%w: unknown response structure", ErrUpstream)
}

func buildPrompt(original dto.DraftQuestion) string {
	originalJSON, _ := sonic.MarshalIndent(original, "", "  ")
	return fmt.Sprintf(`
Berikut ini adalah soal klinis tingkat UKMPPD yang telah ada, dalam format JSON dari aplikasi:

%s

Tugas Anda:
1. Identifikasi topik klinis atau diagnosis utama yang sedang diuji dari soal tersebut (berdasarkan jawaban yang benar).
2. Buat soal baru yang menguji diagnosis yang sama, namun dengan skenario klinis yang **sepenuhnya berbeda** (bukan parafrase, bukan pengulangan pola).
3. Skenario boleh berdasarkan anamnesis, pemeriksaan fisik, EKG, hasil lab, radiologi, atau gabungan data klinis lainnya.
4. Fokus soal tetap pada **penegakan diagnosis**, dan peserta harus dituntun untuk bernalar klinis untuk sampai ke diagnosis tersebut.
5. Buat lima pilihan jawaban (A–E), hanya satu yang benar, dan pastikan semua opsi terlihat kredibel secara medis.
6. Buat **pembahasan komprehensif**, menjelaskan:
    - Kenapa satu jawaban paling tepat,
    - Kenapa opsi lain salah, berdasarkan ilmu dan data klinis.
7. **Tentukan "learning_objective"** untuk soal tersebut, yang merupakan konsep inti atau tujuan pembelajaran yang diuji dalam soal ini. "Learning_objective" ini harus mencakup hal-hal seperti teori dasar, diagnosis utama, tanda klinis relevan, dan pendekatan pengobatan yang diperlukan untuk menjawab dengan benar. Fokus utama adalah pada apa yang perlu dipahami oleh calon dokter agar dapat menjawab soal dengan tepat, tanpa perlu mengungkapkan rincian soal atau skenario klinis secara keseluruhan. Buatlah dalam format yang ringkas dan langsung ke inti, yang mudah untuk dianalisis oleh AI.

**Format output HARUS dalam bentuk JSON**, dengan struktur berikut:
{
  "scenario": "",
  "question": "",
  "option_a": "",
  "option_b": "",
  "option_c": "",
  "option_d": "",
  "option_e": "",
  "correct_answer": "",
  "discussion": "",
  "learning_objective": ""
}

Gunakan Bahasa Indonesia akademik yang jelas, logis, dan mengalir klinis.
`, originalJSON)
}
