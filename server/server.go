// Package server exposes the advisor over HTTP: one endpoint accepting the
// company survey and one accepting free-text questions.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	contractx "github.com/digitaldept/business-advisor/advisor/contract"
)

// assessmentQuestion is the fixed prompt sent together with a submitted
// survey.
const assessmentQuestion = "Assess the company's digital maturity level"

// Asker is the dispatcher surface the server depends on.
type Asker interface {
	Ask(ctx context.Context, question string, data contractx.CompanyProfile, headers http.Header) (string, error)
}

type Server struct {
	asker Asker
}

func New(asker Asker) *Server {
	return &Server{asker: asker}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/digitalMaturity", s.handleDigitalMaturity)
	r.GET("/askQuestion", s.handleAskQuestion)
	r.POST("/askQuestion", s.handleAskQuestion)
	return r
}

// CompanyData is the survey payload: every attribute is required so that a
// submitted survey can always be scored.
type CompanyData struct {
	FormalizationLevel            string `json:"formalization_level" binding:"required"`
	AutomationSystems             string `json:"automation_systems" binding:"required"`
	KPIMetrics                    string `json:"kpi_metrics" binding:"required"`
	DataDrivenDecisions           string `json:"data_driven_decisions" binding:"required"`
	ITSystemsUsed                 string `json:"it_systems_used" binding:"required"`
	SystemsIntegration            string `json:"systems_integration" binding:"required"`
	CloudServicesUsage            string `json:"cloud_services_usage" binding:"required"`
	InfoSecurityMeasures          string `json:"info_security_measures" binding:"required"`
	DigitalLiteracy               string `json:"digital_literacy" binding:"required"`
	TrainingPrograms              string `json:"training_programs" binding:"required"`
	ITSpecialistsInHouse          string `json:"it_specialists_in_house" binding:"required"`
	EmployeesAutomationPerception string `json:"employees_automation_perception" binding:"required"`
	ITStrategy                    string `json:"it_strategy" binding:"required"`
	StateElectronicServices       string `json:"state_electronic_services" binding:"required"`
	FutureImplementationPlans     string `json:"future_implementation_plans" binding:"required"`
}

// Profile converts the payload into the profile map the score engine reads.
func (d CompanyData) Profile() contractx.CompanyProfile {
	return contractx.CompanyProfile{
		"formalization_level":             d.FormalizationLevel,
		"automation_systems":              d.AutomationSystems,
		"kpi_metrics":                     d.KPIMetrics,
		"data_driven_decisions":           d.DataDrivenDecisions,
		"it_systems_used":                 d.ITSystemsUsed,
		"systems_integration":             d.SystemsIntegration,
		"cloud_services_usage":            d.CloudServicesUsage,
		"info_security_measures":          d.InfoSecurityMeasures,
		"digital_literacy":                d.DigitalLiteracy,
		"training_programs":               d.TrainingPrograms,
		"it_specialists_in_house":         d.ITSpecialistsInHouse,
		"employees_automation_perception": d.EmployeesAutomationPerception,
		"it_strategy":                     d.ITStrategy,
		"state_electronic_services":       d.StateElectronicServices,
		"future_implementation_plans":     d.FutureImplementationPlans,
	}
}

type questionPayload struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) handleDigitalMaturity(c *gin.Context) {
	var payload CompanyData
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.asker.Ask(c.Request.Context(), assessmentQuestion, payload.Profile(), requestHeaders(c.Request))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (s *Server) handleAskQuestion(c *gin.Context) {
	var payload questionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.asker.Ask(c.Request.Context(), payload.Question, nil, requestHeaders(c.Request))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// renderError maps the error taxonomy onto status codes: credential and
// validation problems are the client's fault, everything else is a server
// fault. Remote failures never crash the process; each request is isolated.
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, contractx.ErrMissingCredential), errors.Is(err, contractx.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
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
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	}
}
