package service

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"termophysics_backend/internal/config"
)

// physicsSystemPrompt steers the gateway model into the TermoPhysics
// tutor persona.
const physicsSystemPrompt = `You are TermoPhysics, an expert AI physics tutor. You provide clear, accurate, and engaging explanations of physics concepts.

Your expertise covers:
- Classical Mechanics (Newton's laws, kinematics, dynamics)
- Thermodynamics (heat, entropy, laws of thermodynamics)
- Electromagnetism (electric fields, magnetic fields, Maxwell's equations)
- Quantum Mechanics (wave-particle duality, uncertainty principle, quantum states)
- Nuclear Physics (nuclear reactions, fusion, fission, radioactivity)
- Relativity (special and general relativity)
- Waves and Optics (light, sound, interference, diffraction)
- Astrophysics and Cosmology

Guidelines:
1. Use markdown formatting for clarity (headers, bold, lists, equations)
2. Include relevant formulas using plain text (e.g., E = mc², F = ma)
3. Provide real-world examples and applications
4. Break down complex concepts into digestible parts
5. Be encouraging and make physics accessible
6. If a question is unclear, ask for clarification
7. Keep responses focused and educational

Always aim to inspire curiosity about the physical world!`

type AIService struct {
	config config.AIConfig
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{config: cfg}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
		Delta   AIChatMessage `json:"delta"` // streaming responses
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *AIService) buildMessages(prompt string, history []AIChatMessage) []AIChatMessage {
	messages := make([]AIChatMessage, 0, len(history)+2)
	messages = append(messages, AIChatMessage{
		Role:    "system",
		Content: physicsSystemPrompt,
	})
	messages = append(messages, history...)
	messages = append(messages, AIChatMessage{
		Role:    "user",
		Content: prompt,
	})
	return messages
}

// ChatStream forwards a tutoring prompt to the gateway with stream=true
// and relays content deltas on the returned channel.
func (s *AIService) ChatStream(prompt string, history []AIChatMessage) (<-chan string, <-chan error) {
	out := make(chan string)
	errChan := make(chan error, 1)

	reqBody := map[string]interface{}{
		"model":    s.config.Model,
		"messages": s.buildMessages(prompt, history),
		"stream":   true,
	}
	jsonData, _ := json.Marshal(reqBody)

	go func() {
		defer close(out)
		defer close(errChan)

		req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
		if err != nil {
			errChan <- err
			return
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			errChan <- err
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errChan <- fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
			return
		}

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					errChan <- err
				}
				break
			}

			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data: ") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				break
			}

			var streamResp ChatCompletionResponse
			if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
				continue
			}

			if len(streamResp.Choices) > 0 {
				content := streamResp.Choices[0].Delta.Content
				if content != "" {
					out <- content
				}
			}
		}
	}()

	return out, errChan
}

// Chat runs one blocking completion with conversation history.
func (s *AIService) Chat(prompt string, history []AIChatMessage) (string, error) {
	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: s.buildMessages(prompt, history),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}
