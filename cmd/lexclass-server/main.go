package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cognicore/lexclass/pkg/lexclass/store"
	"github.com/cognicore/lexclass/pkg/lexclass/store/sqlite"
)

func main() {
	var (
		dbPath = flag.String("db", "", "Path to sqlite database with clustering runs (required)")
		addr   = flag.String("addr", ":8080", "Listen address")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	st, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		logger.Fatal("Failed to open store", zap.String("path", *dbPath), zap.Error(err))
	}
	defer st.Close()

	router := setupRouter(st, logger)
	logger.Info("serving", zap.String("addr", *addr))
	if err := router.Run(*addr); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func setupRouter(st store.Store, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(recoveryMiddleware(logger))
	router.Use(loggerMiddleware(logger))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/runs", listRuns(st))
		v1.GET("/runs/:id", getRun(st))
		v1.GET("/runs/:id/classes/:class", wordsInClass(st))
		v1.GET("/runs/:id/words/:word", classOfWord(st))
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})
	}

	return router
}

func listRuns(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		runs, err := st.ListRuns(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"runs": runs})
	}
}

func getRun(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		run, found, err := st.GetRun(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		iterations, err := st.GetIterations(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"run": run, "iterations": iterations})
	}
}

func wordsInClass(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		class, err := strconv.Atoi(c.Param("class"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid class id"})
			return
		}
		words, err := st.WordsInClass(c.Request.Context(), c.Param("id"), class)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"class": class, "words": words})
	}
}

func classOfWord(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		word := c.Param("word")
		class, found, err := st.ClassOfWord(c.Request.Context(), c.Param("id"), word)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "word not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"word": word, "class": class})
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		)
		c.Next()
	}
}

func recoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.Any("error", err),
					zap.String("stack", string(debug.Stack())),
					zap.String("path", c.Request.URL.Path),
				)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				c.Abort()
			}
		}()
		c.Next()
	}
}
