package shapeclassdaemon

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/entity"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/errors"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/protocol"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/mapper"
	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/raster"
)

// Classify accepts a request only while the session is not Disconnected. Requests for a removed session are dropped.
// Every failure after acceptance, panics included, is delivered to the client as an error payload.
func (c *controller) Classify(ctx context.Context, payload json.RawMessage) error {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return err
	}

	s, err := c.sessions.Update(ctx, id, func(s *entity.Session) error {
		return s.BeginClassify()
	})
	if err != nil {
		// Frames read before a disconnect may arrive after the session is gone.
		if _, gone := errors.NotFoundUUID(err); gone {
			c.stats.Counter(_metricDiscarded).Inc(1)
			c.logger.Infow("discarding request for ended session", "session", id)
			return nil
		}
		c.countError(err)
		c.logger.Warnw("rejecting classify request", "session", id, "error", err)
		return err
	}

	request := s.RequestCount
	ctx = mapper.RequestIDToContext(ctx, request)
	c.stats.Counter(_metricRequests).Inc(1)

	start := c.clock.Now()
	result, classifyErr := c.classify(ctx, payload)
	elapsed := c.clock.Since(start)
	c.stats.Timer(_metricLatency).Record(elapsed)

	if _, err := c.sessions.Update(ctx, id, func(s *entity.Session) error {
		return s.EndClassify()
	}); err != nil {
		c.stats.Counter(_metricDiscarded).Inc(1)
		c.logger.Infow("discarding result for ended session", "session", id, "request", request, "error", err)
		return nil
	}

	var params protocol.ClassificationParams
	if classifyErr != nil {
		c.countError(classifyErr)
		c.logger.Warnw("classification failed", "session", id, "request", request, "kind", errors.Kind(classifyErr), "error", classifyErr, "elapsed", elapsed)
		params = mapper.ErrorToPayload(classifyErr)
	} else {
		c.stats.Counter(_metricSuccess).Inc(1)
		c.logger.Infow("classified", "session", id, "request", request, "label", result.Label.String(), "confidence", result.Confidence, "elapsed", elapsed)
		params = mapper.ResultToPayload(result)
	}

	if err := c.notifier.Classification(ctx, params); err != nil {
		if errors.IsTransport(err) {
			c.stats.Counter(_metricDiscarded).Inc(1)
			c.logger.Infow("discarding undeliverable result", "session", id, "request", request, "error", err)
			return nil
		}
		return err
	}
	return nil
}

// classify runs decode, render and inference. A panic anywhere below is returned as an error.
func (c *controller) classify(ctx context.Context, payload json.RawMessage) (result entity.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = entity.Result{}, fmt.Errorf("internal error: %v", r)
		}
	}()

	req, err := mapper.PayloadToClassifyRequest(payload)
	if err != nil {
		return entity.Result{}, err
	}

	renderer := c.renderer
	if req.Canvas != nil {
		renderer, err = raster.NewRenderer(c.canvas.WithDimensions(req.Canvas.Width, req.Canvas.Height))
		if err != nil {
			return entity.Result{}, &errors.InputError{Err: err}
		}
	}

	img, err := renderer.Render(req.Stroke)
	if err != nil {
		return entity.Result{}, &errors.RenderError{Err: err}
	}

	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err = c.classifier.Classify(tctx, img)
	if err != nil {
		if tctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return entity.Result{}, &errors.TimeoutError{After: c.timeout}
		}
		return entity.Result{}, err
	}
	return result, nil
}

func (c *controller) countError(err error) {
	c.stats.Tagged(map[string]string{"kind": errors.Kind(err)}).Counter(_metricErrors).Inc(1)
}
