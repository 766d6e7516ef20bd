// Package web serves the browser surface: upload an input file, run the
// provider comparison as a background job, poll progress, download results.
package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"route-compare/internal/comparator"
	"route-compare/internal/input"
	"route-compare/internal/report"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Config carries everything the server needs; keys may still be overridden
// per run through the upload form.
type Config struct {
	Port          string
	User          string
	Pass          string
	SecretKey     string
	DirectionsKey string
	RoutesKey     string
}

type Server struct {
	cfg   Config
	jobs  *JobStore
	build func(directionsKey, routesKey string) *comparator.Comparator
}

func NewServer(cfg Config, build func(directionsKey, routesKey string) *comparator.Comparator) *Server {
	return &Server{cfg: cfg, jobs: NewJobStore(), build: build}
}

func (s *Server) Run() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	store := cookie.NewStore([]byte(s.cfg.SecretKey))
	r.Use(sessions.Sessions("routecompare", store))
	r.LoadHTMLGlob("templates/*")

	authRequired := func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get("user") == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}

	r.GET("/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "login.html", gin.H{})
	})

	r.POST("/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		if username == s.cfg.User && password == s.cfg.Pass {
			session := sessions.Default(c)
			session.Set("user", username)
			session.Save()
			c.Redirect(http.StatusFound, "/")
			return
		}
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "Invalid username or password"})
	})

	r.GET("/logout", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Clear()
		session.Save()
		c.Redirect(http.StatusFound, "/login")
	})

	authorized := r.Group("/")
	authorized.Use(authRequired)
	{
		authorized.GET("/", func(c *gin.Context) {
			c.HTML(http.StatusOK, "index.html", gin.H{})
		})

		authorized.POST("/run", s.handleRun)

		authorized.GET("/logs", func(c *gin.Context) {
			job := s.jobs.Get(c.Query("job_id"))
			if job == nil {
				c.JSON(http.StatusOK, gin.H{"ok": false, "error": "Job not found"})
				return
			}
			job.Mutex.RLock()
			logs := make([]string, len(job.Logs))
			copy(logs, job.Logs)
			status := job.Status
			progress := job.Progress
			job.Mutex.RUnlock()

			c.JSON(http.StatusOK, gin.H{
				"ok":       true,
				"logs":     logs,
				"status":   status,
				"progress": progress,
			})
		})

		authorized.GET("/status", func(c *gin.Context) {
			job := s.jobs.Get(c.Query("job_id"))
			if job == nil {
				c.JSON(http.StatusOK, gin.H{"ok": false})
				return
			}
			job.Mutex.RLock()
			defer job.Mutex.RUnlock()

			res := gin.H{
				"ok":     true,
				"status": job.Status,
				"error":  job.Error,
			}
			if job.Result != nil {
				res["result"] = job.Result
			}
			c.JSON(http.StatusOK, res)
		})

		authorized.GET("/download-result/:filename", func(c *gin.Context) {
			filename := filepath.Base(c.Param("filename"))
			c.File(filepath.Join("output", filename))
		})
	}

	fmt.Printf("route-compare web UI on port %s\n", s.cfg.Port)
	return r.Run(":" + s.cfg.Port)
}

func (s *Server) handleRun(c *gin.Context) {
	file, err := c.FormFile("input_file")
	if err != nil {
		c.HTML(http.StatusOK, "index.html", gin.H{"Message": "Please choose an input file."})
		return
	}

	directionsKey := c.PostForm("directions_key")
	if directionsKey == "" {
		directionsKey = s.cfg.DirectionsKey
	}
	routesKey := c.PostForm("routes_key")
	if routesKey == "" {
		routesKey = s.cfg.RoutesKey
	}
	if directionsKey == "" || routesKey == "" {
		c.HTML(http.StatusOK, "index.html", gin.H{"Message": "Both API keys are required."})
		return
	}

	workers, _ := strconv.Atoi(c.PostForm("workers"))
	if workers < 1 {
		workers = 4
	}

	os.MkdirAll("uploads", 0755)
	os.MkdirAll("output", 0755)

	inputPath := filepath.Join("uploads", fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, inputPath); err != nil {
		c.HTML(http.StatusOK, "index.html", gin.H{"Message": "Upload failed."})
		return
	}

	job := s.jobs.New()
	go s.processJob(job, inputPath, directionsKey, routesKey, workers)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"JobID":   job.ID,
		"Message": "Comparison started...",
	})
}

func (s *Server) processJob(job *Job, inputPath, directionsKey, routesKey string, workers int) {
	defer func() {
		if r := recover(); r != nil {
			job.Fail(fmt.Sprintf("Panic: %v", r))
		}
	}()

	job.Log(fmt.Sprintf("Reading input: %s", filepath.Base(inputPath)))

	pairs, err := input.ReadPairs(inputPath)
	if err != nil {
		job.Fail(fmt.Sprintf("Input error: %v", err))
		return
	}
	job.Log(fmt.Sprintf("Loaded %d geohash pairs.", len(pairs)))

	start := time.Now()
	cmp := s.build(directionsKey, routesKey)
	records, summary := comparator.RunBatch(context.Background(), cmp, pairs, workers,
		job.SetProgress, job.Log)
	job.Log(fmt.Sprintf("Comparison finished in %s.", time.Since(start).Round(time.Millisecond)))

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	csvName := base + "_comparison.csv"
	xlsxName := base + "_comparison.xlsx"

	job.Log("Writing result files...")
	err = report.Write(records, summary,
		filepath.Join("output", csvName),
		filepath.Join("output", xlsxName))
	if err != nil {
		job.Fail(fmt.Sprintf("Write error: %v", err))
		return
	}

	job.Finish(&JobResult{
		Rows:     len(records),
		BothOK:   summary.BothSucceeded,
		CSV:      csvName,
		Workbook: xlsxName,
	})
}
