package main

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhyrak/exam-seating/internal/csvio"
	"github.com/rhyrak/exam-seating/internal/logging"
	"github.com/rhyrak/exam-seating/internal/metrics"
	"github.com/rhyrak/exam-seating/internal/scheduler"
	"github.com/rhyrak/exam-seating/internal/store"
)

type server struct {
	cfg      *scheduler.Configuration
	plans    *store.PlanStore
	logger   logging.Logger
	metrics  metrics.Collector
	gatherer prometheus.Gatherer
}

func newRouter(srv *server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/plans", srv.handleGetPlans)
	r.GET("/plans/:id", srv.handleGetPlanWithId)
	r.DELETE("/plans/:id", srv.handleDeletePlanWithId)
	r.POST("/plans", srv.handlePostPlan)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(srv.gatherer, promhttp.HandlerOpts{})))

	return r
}

func (srv *server) handleGetPlans(ctx *gin.Context) {
	metas, err := srv.plans.List(ctx.Request.Context())
	if err != nil {
		srv.logger.Error("listing plans failed", "error", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"plans": metas,
	})
}

func (srv *server) handleGetPlanWithId(ctx *gin.Context) {
	id := ctx.Param("id")

	meta, err := srv.plans.Meta(ctx.Request.Context(), id)
	if err != nil {
		srv.storeError(ctx, err)
		return
	}
	plan, err := srv.plans.Load(ctx.Request.Context(), id)
	if err != nil {
		srv.storeError(ctx, err)
		return
	}
	data, err := csvio.ExportPlanString(plan)
	if err != nil {
		srv.logger.Error("encoding plan failed", "id", id, "error", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"plan":     meta,
		"unseated": plan.Unseated,
		"data":     data,
	})
}

func (srv *server) handleDeletePlanWithId(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := srv.plans.Delete(ctx.Request.Context(), id); err != nil {
		srv.storeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id": id,
	})
}

func (srv *server) storeError(ctx *gin.Context, err error) {
	if errors.Is(err, store.ErrPlanNotFound) {
		ctx.Status(http.StatusNotFound)
		return
	}
	srv.logger.Error("plan store failed", "error", err)
	ctx.Status(http.StatusInternalServerError)
}

// handlePostPlan allocates seats for the uploaded enrollment, schedule and
// rooms tables and archives the result.
func (srv *server) handlePostPlan(ctx *gin.Context) {
	cfg := *srv.cfg

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.String(http.StatusBadRequest, "%v", err)
		return
	}
	for _, name := range []string{"enrollment", "schedule", "rooms"} {
		if len(form.File[name]) == 0 {
			ctx.String(http.StatusBadRequest, "missing file: %s", name)
			return
		}
	}

	if v := ctx.PostForm("margin"); v != "" {
		margin, err := strconv.Atoi(v)
		if err != nil {
			ctx.String(http.StatusBadRequest, "margin: %v", err)
			return
		}
		cfg.SeatMargin = margin
	}
	if v := ctx.PostForm("mode"); v != "" {
		cfg.ArrangementMode = v
	}
	if v := ctx.PostForm("delimiter"); v != "" {
		cfg.Delimiter = v
	}
	if v := ctx.PostForm("reset_pools"); v != "" {
		reset, err := strconv.ParseBool(v)
		if err != nil {
			ctx.String(http.StatusBadRequest, "reset_pools: %v", err)
			return
		}
		cfg.ResetPoolsPerSession = reset
	}

	sched, err := scheduler.NewScheduler(&cfg, scheduler.WithLogger(srv.logger), scheduler.WithMetrics(srv.metrics))
	if err != nil {
		ctx.String(http.StatusBadRequest, "%v", err)
		return
	}

	in, err := readUpload(form, cfg.Comma())
	if err != nil {
		ctx.String(http.StatusBadRequest, "%v", err)
		return
	}

	plan, err := sched.Run(in)
	if err != nil {
		ctx.String(http.StatusBadRequest, "%v", err)
		return
	}
	_, report, err := sched.Validate(plan, in)
	if err != nil {
		srv.logger.Error("validating plan failed", "error", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}

	id := store.NewID()
	if err := srv.plans.Save(ctx.Request.Context(), id, plan, report); err != nil {
		srv.logger.Error("saving plan failed", "id", id, "error", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}
	srv.logger.Info("plan created", "id", id, "assignments", len(plan.Assignments), "unseated", plan.TotalUnseated())

	ctx.JSON(http.StatusCreated, gin.H{
		"id":       id,
		"unseated": plan.TotalUnseated(),
		"report":   report,
	})
}

func readUpload(form *multipart.Form, delim rune) (*scheduler.Input, error) {
	open := func(name string) (io.ReadCloser, error) {
		f, err := form.File[name][0].Open()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return f, nil
	}

	f, err := open("enrollment")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	courses, err := csvio.ReadEnrollment(f, delim)
	if err != nil {
		return nil, err
	}

	f, err = open("schedule")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := csvio.ReadSchedule(f, delim)
	if err != nil {
		return nil, err
	}

	f, err = open("rooms")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rooms, err := csvio.ReadRooms(f, delim)
	if err != nil {
		return nil, err
	}

	return &scheduler.Input{
		Courses:  courses,
		Sessions: scheduler.SessionsFromSchedule(rows),
		Rooms:    rooms,
	}, nil
}
