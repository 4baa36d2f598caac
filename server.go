package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/mpromonet/movenet-tflite/metrics"
	"github.com/mpromonet/movenet-tflite/pose"
	"github.com/mpromonet/movenet-tflite/settings"
)

const shutdownTimeout = 5 * time.Second

type inferenceRequest struct {
	img   gocv.Mat
	reply chan inferenceResult
}

type inferenceResult struct {
	dets pose.Detections
	err  error
}

type person struct {
	Joints []pose.ScaledJoint `json:"joints"`
}

type runModelResponse struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	People []person `json:"people"`
}

type errorResponse struct {
	Message string `json:"message"`
}

var errServerStopping = errors.New("server is stopping")

// modelWorker is the only goroutine touching the interpreter in serving mode.
// It returns once stopping is closed.
func (m *Model) modelWorker(in <-chan inferenceRequest, stopping <-chan struct{}) {
	for {
		select {
		case req := <-in:
			req.reply <- m.handle(req.img)
		case <-stopping:
			return
		}
	}
}

func (m *Model) handle(img gocv.Mat) (res inferenceResult) {
	tags := []string{metrics.Tag(metrics.TagStatus, metrics.TagSuccess)}
	defer func(start time.Time) {
		metrics.TimingWithStart(metrics.InferenceLatency, start, tags)
	}(time.Now())

	res.dets, res.err = m.Run(img)
	if res.err != nil {
		tags[0] = metrics.Tag(metrics.TagStatus, metrics.TagFailure)
		log.Error().Err(res.err).Msg("inference failed")
	}
	metrics.Count(metrics.InferenceCount, 1, tags)
	metrics.Gauge(metrics.PeopleCount, float64(len(res.dets)), nil)
	return res
}

// submit hands req to the worker unless ctx ends or the server stops first.
func submit(ctx context.Context, requests chan<- inferenceRequest, stopping <-chan struct{}, req inferenceRequest) error {
	select {
	case requests <- req:
		return nil
	case <-stopping:
		return errServerStopping
	case <-ctx.Done():
		return ctx.Err()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func runModelHandler(requests chan<- inferenceRequest, stopping <-chan struct{}, names []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
			return
		}
		log.Debug().Int("size", len(body)).Msg("image received")

		img, err := gocv.IMDecode(body, gocv.IMReadColor)
		if err != nil || img.Empty() {
			img.Close()
			c.JSON(http.StatusBadRequest, errorResponse{Message: pose.ErrImageLoad.Error()})
			return
		}
		defer img.Close()

		reply := make(chan inferenceResult, 1)
		if err := submit(c.Request.Context(), requests, stopping, inferenceRequest{img: img, reply: reply}); err != nil {
			c.JSON(http.StatusServiceUnavailable, errorResponse{Message: err.Error()})
			return
		}
		// the worker still reads img, wait for it before img.Close
		res := <-reply
		if res.err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse{Message: res.err.Error()})
			return
		}

		resp := runModelResponse{Width: img.Cols(), Height: img.Rows(), People: make([]person, 0, len(res.dets))}
		for _, d := range res.dets {
			resp.People = append(resp.People, person{Joints: pose.Scale(d, img.Cols(), img.Rows(), names)})
		}
		c.JSON(http.StatusOK, resp)
	}
}

func newRouter(staticDir string, requests chan<- inferenceRequest, stopping <-chan struct{}, names []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.Use(static.Serve("/", static.LocalFile(staticDir, false)))
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.POST("/runmodel", runModelHandler(requests, stopping, names))
	return router
}

// serve answers /runmodel until ctx is cancelled.
func serve(ctx context.Context, s settings.Settings, model *Model, names []string) error {
	gin.SetMode(gin.ReleaseMode)

	requests := make(chan inferenceRequest)
	stopping := make(chan struct{})
	done := make(chan struct{})
	go func() {
		model.modelWorker(requests, stopping)
		close(done)
	}()
	// requests is never closed, handlers still blocked in submit see stopping instead
	defer func() {
		close(stopping)
		<-done
	}()

	srv := &http.Server{
		Addr:         s.ServeAddr,
		Handler:      newRouter(s.StaticDir, requests, stopping, names),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
