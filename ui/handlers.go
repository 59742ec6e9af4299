package ui

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"careerpath/domain/core"
	"careerpath/internal/errors"
	"careerpath/internal/normalize"
	"careerpath/internal/profiling"
	"careerpath/internal/questionnaire"
	"careerpath/internal/report"

	"github.com/gin-gonic/gin"
)

type predictRequest struct {
	Answers map[string]json.RawMessage `json:"answers"`
}

type answerRequest struct {
	Option *int            `json:"option"`
	Value  json.RawMessage `json:"value"`
}

type sessionView struct {
	ID        string                 `json:"id"`
	Prompts   []questionnaire.Prompt `json:"prompts"`
	Answered  []string               `json:"answered"`
	CreatedAt time.Time              `json:"created_at"`
}

func viewOf(sess *questionnaire.Session) sessionView {
	answered := sess.Answered()
	if answered == nil {
		answered = []string{}
	}
	return sessionView{
		ID:        sess.ID().String(),
		Prompts:   sess.Prompts(),
		Answered:  answered,
		CreatedAt: sess.CreatedAt(),
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"ready":    s.service.Ready(),
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleModel(c *gin.Context) {
	a, err := s.service.Artifacts()
	if err != nil {
		s.respondError(c, err)
		return
	}
	m := a.Model
	c.JSON(http.StatusOK, gin.H{
		"version":     a.Version.Short(),
		"features":    m.Features,
		"importances": a.Predictor.Importances(),
		"classes":     a.Registry.TargetClasses(),
		"accuracy":    m.Accuracy,
		"train_rows":  m.TrainRows,
		"test_rows":   m.TestRows,
		"clamped":     m.Clamped,
		"built_at":    a.BuiltAt,
	})
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput("request body must be {\"answers\": {...}}"))
		return
	}
	resp, err := normalize.DecodeResponse(req.Answers)
	if err != nil {
		s.respondError(c, err)
		return
	}
	result, err := s.service.Predict(c.Request.Context(), resp)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleStartSession(c *gin.Context) {
	a, err := s.service.Artifacts()
	if err != nil {
		s.respondError(c, err)
		return
	}
	sess := s.sessions.Start(a.Features())
	c.JSON(http.StatusCreated, viewOf(sess))
}

// session resolves the :id path parameter
func (s *Server) session(c *gin.Context) (*questionnaire.Session, bool) {
	id, err := core.ParseSessionID(c.Param("id"))
	if err != nil {
		s.respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return nil, false
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(sess))
}

func (s *Server) handleAnswer(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	feature := c.Param("feature")

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput(`body must be {"option": n} or {"value": x}`))
		return
	}

	var (
		answer normalize.Answer
		err    error
	)
	switch {
	case req.Option != nil:
		answer, err = sess.AnswerOption(feature, *req.Option)
	case len(req.Value) > 0:
		answer, err = normalize.DecodeAnswer(feature, req.Value)
		if err == nil {
			err = sess.AnswerValue(feature, answer)
		}
	default:
		err = errors.InvalidInput(`body must be {"option": n} or {"value": x}`)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feature":  feature,
		"answer":   normalize.EncodeAnswer(answer),
		"answered": sess.Answered(),
	})
}

func (s *Server) handleResetSession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.Reset()
	c.JSON(http.StatusOK, viewOf(sess))
}

func (s *Server) handleSessionPredict(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	result, err := s.service.PredictSession(c.Request.Context(), sess.ID(), sess.Response())
	if err != nil {
		s.respondError(c, err)
		return
	}
	sess.SetResult(result)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleSessionReport(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	result := sess.Result()
	if result == nil {
		s.respondError(c, errors.NotFound("prediction for this session"))
		return
	}
	page := report.Page("Career prediction", report.HTML(report.Prediction(result)))
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleEndSession(c *gin.Context) {
	id, err := core.ParseSessionID(c.Param("id"))
	if err != nil {
		s.respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	if err := s.sessions.End(id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListPredictions(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	list, err := s.service.History(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": list})
}

func (s *Server) handleGetPrediction(c *gin.Context) {
	p, err := s.service.Prediction(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleDatasetPreview(c *gin.Context) {
	a, err := s.service.Artifacts()
	if err != nil {
		s.respondError(c, err)
		return
	}
	rows := queryInt(c, "rows", 5)
	c.JSON(http.StatusOK, gin.H{
		"total_rows": a.Dataset.NumRows(),
		"rows":       a.Dataset.Head(rows),
	})
}

func (s *Server) handleDatasetProfile(c *gin.Context) {
	a, err := s.service.Artifacts()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"columns":       s.profiler.ProfileDataset(a.Dataset),
		"class_balance": profiling.ClassBalance(a.Dataset),
	})
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
