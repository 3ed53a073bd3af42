package jobqueue

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ostvik/league-hub/internal/platform/logging"
	"github.com/ostvik/league-hub/internal/platform/resilience"
)

// SchedulerPublisherConfig configures the delayed-callback scheduler.
// The scheduler POSTs the payload back to TargetBaseURL+path once the
// delay elapses, forwarding the internal job token so the callback
// passes the internal-job middleware.
type SchedulerPublisherConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	Breaker          resilience.CircuitBreakerConfig
}

type SchedulerPublisher struct {
	client           *fasthttp.Client
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	timeout          time.Duration
	breaker          *resilience.CircuitBreaker
	logger           *logging.Logger
}

func NewSchedulerPublisher(cfg SchedulerPublisherConfig, logger *logging.Logger) *SchedulerPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	var breaker *resilience.CircuitBreaker
	if cfg.Breaker.Enabled {
		bc := resilience.NormalizeCircuitBreakerConfig(cfg.Breaker)
		breaker = resilience.NewCircuitBreaker(bc.FailureThreshold, bc.OpenTimeout, bc.HalfOpenMaxReq)
	}

	return &SchedulerPublisher{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL:          strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		timeout:          timeout,
		breaker:          breaker,
		logger:           logger,
	}
}

// Enqueue schedules a delayed POST callback to path on the service's
// internal job surface.
func (p *SchedulerPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return errors.New("job path is required")
	}

	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return errors.Wrap(err, "invalid SCHEDULER_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(p.targetBaseURL)
	if err != nil {
		return errors.Wrap(err, "invalid SCHEDULER_TARGET_BASE_URL")
	}

	if p.breaker != nil {
		if err := p.breaker.Allow(); err != nil {
			return errors.Wrap(err, "scheduler publish rejected")
		}
	}

	targetURL := targetBaseURL + path
	publishURL := baseURL + "/v1/publish/" + targetURL

	bodyPayload := payload
	if bodyPayload == nil {
		bodyPayload = map[string]any{}
	}
	body, err := sonic.Marshal(bodyPayload)
	if err != nil {
		return errors.Wrap(err, "marshal job payload")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("scheduler.publish_url", publishURL),
			attribute.String("scheduler.target_url", targetURL),
			attribute.String("scheduler.path", path),
			attribute.String("scheduler.delay", normalizeDelay(delay)),
		)
	}

	err = p.publish(publishURL, body, delay, deduplicationID)
	if p.breaker != nil {
		if err != nil {
			p.breaker.RecordFailure()
		} else {
			p.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return errors.Wrapf(err, "publish scheduler job target_url=%s", targetURL)
	}

	p.logger.InfoContext(ctx, "scheduler job published",
		"path", path,
		"delay", normalizeDelay(delay),
		"deduplication_id", deduplicationID,
	)
	return nil
}

func (p *SchedulerPublisher) publish(publishURL string, body []byte, delay time.Duration, deduplicationID string) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(publishURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Scheduler-Method", "POST")
	if p.retries > 0 {
		req.Header.Set("Scheduler-Retries", fmt.Sprintf("%d", p.retries))
	}
	if delay > 0 {
		req.Header.Set("Scheduler-Delay", normalizeDelay(delay))
	}
	if dedup := strings.TrimSpace(deduplicationID); dedup != "" {
		req.Header.Set("Scheduler-Deduplication-Id", dedup)
	}
	if p.internalJobToken != "" {
		req.Header.Set("Scheduler-Forward-X-Internal-Job-Token", p.internalJobToken)
	}
	req.SetBody(body)

	if err := p.client.DoTimeout(req, resp, p.timeout); err != nil {
		return errors.Wrap(err, "send publish request")
	}

	status := resp.StatusCode()
	if status/100 != 2 {
		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)
		raw := resp.Body()
		if len(raw) > 4096 {
			raw = raw[:4096]
		}
		_, _ = buf.Write(raw)
		return errors.Newf("scheduler returned status=%d body=%s", status, strings.TrimSpace(buf.String()))
	}

	return nil
}

func normalizeDelay(delay time.Duration) string {
	if delay <= 0 {
		return "0s"
	}
	seconds := int(delay.Round(time.Second).Seconds())
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%ds", seconds)
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", errors.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", errors.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", errors.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}
