package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ledokol-inc/socialload/backend"
	"github.com/ledokol-inc/socialload/config"
	"github.com/ledokol-inc/socialload/corpus"
	"github.com/ledokol-inc/socialload/discovery"
	"github.com/ledokol-inc/socialload/load"
	"github.com/ledokol-inc/socialload/logger"
	"github.com/ledokol-inc/socialload/population"
	"github.com/ledokol-inc/socialload/prefix"
	"github.com/ledokol-inc/socialload/store"
	"github.com/ledokol-inc/socialload/synth"
)

const shutdownTimeout = 10 * time.Second

var serveBootstrap bool

func init() {
	serveCmd.Flags().BoolVar(&serveBootstrap, "bootstrap", false, "Bootstrap the corpus instead of loading the saved population.")
	serveCmd.Flags().Int("port", 0, "Port of the control server.")
	bindFlag(serveCmd.Flags().Lookup("port"), "server.http-port")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port 1455] [--bootstrap]",
	Short: "Starts the control server that runs load tests against the backend.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		api := newAPI(cfg)
		pop, err := loadPopulation(ctx, cfg, api, st, !serveBootstrap)
		if err != nil {
			return err
		}
		registry := buildRegistry(cfg, api, pop)

		service, err := discovery.RegisterInConsul(cfg.Consul.Address, cfg.Server.HttpPort)
		if err != nil {
			log.Error().Err(err).Msg("Service is not registered in consul")
		}
		defer service.DeregisterInConsul()

		control := newControlServer(registry, st, pop.Len())
		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.HttpPort),
			Handler: control.router(),
		}
		go func() {
			<-ctx.Done()
			control.stopAll()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()

		log.Info().Int("port", cfg.Server.HttpPort).Int("users", pop.Len()).Msg("Control server started")
		if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ListenAndServe() error: %w", err)
		}
		control.wait()
		return nil
	},
}

// buildRegistry resolves every task name to a task over the loaded
// population. Search is left out when no prefixes were discovered yet.
func buildRegistry(cfg *config.Config, api backend.API, pop *population.Population) load.Registry {
	registry := load.Registry{}
	truncate := cfg.Load.Truncate
	if truncate == 0 {
		truncate = synth.DefaultTruncate
	}
	registry.Register(&load.DialogWriteTask{API: api, Population: pop, Truncate: truncate})
	registry.Register(&load.DialogReadTask{API: api, Population: pop})
	registry.Register(&load.FeedReadTask{API: api, Population: pop, Offset: cfg.Synth.Feed.Offset, Limit: cfg.Synth.Feed.Limit})

	prefixes, err := corpus.ReadPrefixes(cfg.Corpus.PrefixFile)
	if err != nil {
		log.Warn().Err(err).Msg("Search task is disabled")
		return registry
	}
	cursor, err := prefix.NewCursor(prefixes)
	if err != nil {
		log.Warn().Err(err).Str("file", cfg.Corpus.PrefixFile).Msg("Search task is disabled")
		return registry
	}
	registry.Register(&load.SearchTask{API: api, Cursor: cursor})
	return registry
}

type controlServer struct {
	registry load.Registry
	store    store.Store
	users    int

	mu           sync.Mutex
	runningTests map[string]*load.Test
	finished     sync.WaitGroup
}

func newControlServer(registry load.Registry, st store.Store, users int) *controlServer {
	return &controlServer{
		registry:     registry,
		store:        st,
		users:        users,
		runningTests: make(map[string]*load.Test),
	}
}

func (control *controlServer) router() *gin.Engine {
	router := gin.New()
	router.Use(logger.Logger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Consul check"})
	})
	router.POST("/run", control.runHandler)
	router.POST("/:id/stop", control.stopHandler)
	router.GET("/tests", control.testsHandler)
	return router
}

func (control *controlServer) runHandler(c *gin.Context) {
	var testData map[string]interface{}
	if err := c.ShouldBindJSON(&testData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	test, err := decodeTest(testData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err = test.PrepareTest(control.registry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err = control.runTest(test); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Тест запущен", "id": test.Id})
}

func (control *controlServer) stopHandler(c *gin.Context) {
	if control.stopTest(c.Param("id")) {
		c.String(http.StatusOK, "Остановка теста запущена")
	} else {
		c.String(http.StatusNotFound, "Тест с таким id не запущен")
	}
}

func (control *controlServer) testsHandler(c *gin.Context) {
	history, err := control.store.FindAllRuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	control.mu.Lock()
	running := make([]string, 0, len(control.runningTests))
	for id := range control.runningTests {
		running = append(running, id)
	}
	control.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"running": running, "history": history})
}

func decodeTest(testData map[string]interface{}) (*load.Test, error) {
	var test load.Test
	if err := mapstructure.Decode(testData["test"], &test); err != nil {
		return nil, fmt.Errorf("can't decode test: %w", err)
	}

	var options load.TestOptions
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &options,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err = decoder.Decode(testData["options"]); err != nil {
		return nil, fmt.Errorf("can't decode options: %w", err)
	}
	test.SetOptions(&options)
	return &test, nil
}

func (control *controlServer) runTest(test *load.Test) error {
	control.mu.Lock()
	defer control.mu.Unlock()
	if _, exists := control.runningTests[test.Id]; exists {
		return fmt.Errorf("test %s is already running", test.Id)
	}
	control.runningTests[test.Id] = test
	control.finished.Add(1)

	go func() {
		defer control.finished.Done()
		test.Run()

		control.mu.Lock()
		delete(control.runningTests, test.Id)
		control.mu.Unlock()

		startTime, endTime := test.Times()
		_, err := control.store.InsertRun(store.Run{
			Command:   "load:" + test.Name,
			StartTime: startTime.Unix(),
			EndTime:   endTime.Unix(),
			Users:     control.users,
		})
		if err != nil {
			log.Error().Err(err).Str("test", test.Name).Msg("Can't save run")
		}
	}()
	return nil
}

func (control *controlServer) stopTest(testId string) bool {
	control.mu.Lock()
	test, exist := control.runningTests[testId]
	control.mu.Unlock()
	if !exist {
		return false
	}
	test.Stop()
	return true
}

func (control *controlServer) stopAll() {
	control.mu.Lock()
	defer control.mu.Unlock()
	for _, test := range control.runningTests {
		test.Stop()
	}
}

func (control *controlServer) wait() {
	control.finished.Wait()
}
