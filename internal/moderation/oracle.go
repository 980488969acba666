package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"
)

// safetyRubric is the fixed instruction sent with every classification call.
const safetyRubric = "flag content inappropriate, flirty, negative, harmful, " +
	"bullying, violent, or controversial for an early-adolescent audience"

const classifyPath = "/v1/classify"

type classifyRequest struct {
	Content string `json:"content"`
	Rubric  string `json:"rubric"`
}

type classifyResponse struct {
	Flag       string  `json:"flag"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// OracleProvider calls the external content-safety classifier. The call is a
// single attempt with a bounded timeout; any transport failure or unparsable
// answer is returned as an error so the chain can fall through.
type OracleProvider struct {
	client *resty.Client
}

// NewOracleProvider returns a classifier client against the given base URL.
func NewOracleProvider(baseURL string, timeout time.Duration) *OracleProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0)
	return &OracleProvider{client: client}
}

func (p *OracleProvider) Name() string { return "classifier" }

// Close releases the underlying HTTP client.
func (p *OracleProvider) Close() error {
	return p.client.Close()
}

func (p *OracleProvider) Classify(ctx context.Context, content string) (Verdict, error) {
	res, err := p.client.R().
		WithContext(ctx).
		SetBody(classifyRequest{Content: content, Rubric: safetyRubric}).
		SetResult(&classifyResponse{}).
		Post(classifyPath)
	if err != nil {
		return Verdict{}, fmt.Errorf("classifier call: %w", err)
	}
	if !res.IsSuccess() {
		return Verdict{}, fmt.Errorf("classifier returned status %d", res.StatusCode())
	}

	out, ok := res.Result().(*classifyResponse)
	if !ok || out == nil {
		return Verdict{}, fmt.Errorf("classifier returned an empty body")
	}

	flag, err := parseFlag(out.Flag)
	if err != nil {
		return Verdict{}, err
	}

	return Verdict{
		Flag:       flag,
		Confidence: clamp01(out.Confidence),
		Reason:     out.Reason,
		Source:     SourceClassifier,
	}, nil
}

// parseFlag accepts exactly the two verdict labels the oracle is contracted
// to emit; anything else means the output is unusable.
func parseFlag(raw string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "green flag", "green":
		return Green, nil
	case "red flag", "red":
		return Red, nil
	default:
		return "", fmt.Errorf("unparsable classifier flag %q", raw)
	}
}
