package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// LineItem is one parsed receipt line.
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// Receipt holds the structured fields extracted from a receipt image. The
// client confirms these before any transaction is created; scanning never
// writes to the ledger.
type Receipt struct {
	Merchant  string     `json:"merchant"`
	Date      string     `json:"date"` // YYYY-MM-DD or empty
	Total     string     `json:"total"`
	Currency  string     `json:"currency"`
	LineItems []LineItem `json:"line_items"`
}

// Scanner sends validated images to the external model and parses the
// strict-JSON reply.
type Scanner struct {
	Model string
}

func NewScanner(model string) *Scanner {
	return &Scanner{Model: model}
}

const receiptPrompt = "You are a receipt parser.\n\n" +
	"Task:\n" +
	"- Extract the fields below from the attached receipt image.\n" +
	"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n\n" +
	"The JSON object must have these fields:\n" +
	"- \"merchant\": string (store or vendor name, empty string if unreadable)\n" +
	"- \"date\": string, ISO format \"YYYY-MM-DD\", or empty string\n" +
	"- \"total\": string, decimal number, e.g. \"12.34\"\n" +
	"- \"currency\": string, ISO code, e.g. \"USD\", or empty string\n" +
	"- \"line_items\": array of {\"name\": string, \"quantity\": number, \"price\": string}\n\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown.\n" +
	"Output must begin with \"{\" and end with \"}\".\n"

// Scan forwards the image to the model and returns the parsed receipt.
func (s *Scanner) Scan(ctx context.Context, image []byte, mime string) (*Receipt, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("scan receipt: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: receiptPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mime,
						Data:     image,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, s.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("scan receipt: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("scan receipt: empty response from model")
	}

	clean := cleanModelJSON(rawText)

	var receipt Receipt
	if err := json.Unmarshal([]byte(clean), &receipt); err != nil {
		return nil, fmt.Errorf("scan receipt: unmarshal JSON: %w", err)
	}
	return &receipt, nil
}

// cleanModelJSON strips Markdown fences when the model ignores the
// formatting instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
