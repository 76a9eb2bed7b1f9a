package router

import (
	"net/http"

	"github.com/crewtrackhq/crewtrack-be/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "crewtrack-api-service",
		})
	})

	jobHandler := handler.NewJobHandler(deps)
	workerHandler := handler.NewWorkerHandler(deps)

	jobs := r.Group("/jobs")
	{
		// POST /jobs/ - Create a job
		jobs.POST("/", jobHandler.CreateJob)

		// POST /jobs/bulk/ - Create a batch of jobs
		jobs.POST("/bulk/", jobHandler.BulkCreateJobs)

		// GET /jobs/ - List jobs with filtering, sorting, and pagination
		jobs.GET("/", jobHandler.ListJobs)

		// DELETE /jobs/:jobId - Delete a job by id
		jobs.DELETE("/:jobId", jobHandler.DeleteJob)

		// POST /jobs/:jobId/workers - Assign workers to a job
		jobs.POST("/:jobId/workers", jobHandler.AssignWorkers)
	}

	workers := r.Group("/workers")
	{
		// POST /workers/ - Create a worker
		workers.POST("/", workerHandler.CreateWorker)

		// POST /workers/bulk/ - Create a batch of workers
		workers.POST("/bulk/", workerHandler.BulkCreateWorkers)

		// GET /workers/ - List workers with filtering and pagination
		workers.GET("/", workerHandler.ListWorkers)
	}

	return r
}
