package translate

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// Переводчик поверх openai. Перевод для пайплайна не критичен:
// если ключа нет или запрос упал, вызывающая сторона оставляет текст как есть
type OpenAITranslator struct {
	// sdk для openai
	client *openai.Client
	// Язык, на который переводим
	targetLanguage string
	// Флаг вкл/выкл переводчика
	enabled bool
	mu      sync.Mutex
}

func NewOpenAITranslator(apiKey string, targetLanguage string) *OpenAITranslator {
	t := &OpenAITranslator{
		client:         openai.NewClient(apiKey),
		targetLanguage: targetLanguage,
	}

	log.Printf("openai translator enabled: %v", apiKey != "")

	if apiKey != "" {
		t.enabled = true
	}

	return t
}

// Translate переводит текст на целевой язык.
// При выключенном переводчике возвращает исходный текст без ошибки
func (t *OpenAITranslator) Translate(ctx context.Context, text string) (string, error) {
	// Обкладываем мьютексом, т.к. конкурентный доступ может вызывать сюрпризы
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled || strings.TrimSpace(text) == "" {
		return text, nil
	}

	request := openai.ChatCompletionRequest{
		Model: "gpt-3.5-turbo",
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(
					"Переведи текст на %s. В ответе только перевод, без пояснений.",
					t.targetLanguage,
				),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		MaxTokens:   512,
		Temperature: 0.2,
		TopP:        1,
	}

	resp, err := t.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}

	// openai присылает несколько вариантов, берем самый первый
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
