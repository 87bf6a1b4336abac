package stubserver

import (
	"encoding/json"
	"hash/fnv"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is a local stand-in for the deployed model-serving stack. It
// answers /health, /predict and /metrics the way the real service does, so
// the smoke suite and the monitor can be exercised without a deployment.
// Predictions are deterministic: the label is derived from the uploaded
// filename, so labeled test directories score predictably.
type Server struct {
	Logger  *zap.Logger
	Classes []string

	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

func NewServer(logger *zap.Logger, classes []string) *Server {
	reg := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inference_requests_total",
		Help: "Total inference requests handled.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inference_latency_seconds",
		Help:    "Inference latency.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(requests, latency)

	return &Server{
		Logger:   logger,
		Classes:  classes,
		registry: reg,
		requests: requests,
		latency:  latency,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/health", s.handleHealth)
	r.Post("/predict", s.handlePredict)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"status": "healthy", "model_loaded": true})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { s.latency.Observe(time.Since(start).Seconds()) }()

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		s.requests.WithLabelValues("bad_request").Inc()
		http.Error(w, "expected multipart form", http.StatusBadRequest)
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		s.requests.WithLabelValues("bad_request").Inc()
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	file.Close()

	label, confidence := s.classify(hdr.Filename)
	probs := map[string]float64{}
	rest := (1 - confidence) / float64(max(len(s.Classes)-1, 1))
	for _, c := range s.Classes {
		if c == label {
			probs[c] = confidence
		} else {
			probs[c] = rest
		}
	}

	s.requests.WithLabelValues("ok").Inc()
	s.Logger.Debug("stub_prediction",
		zap.String("file", hdr.Filename),
		zap.String("label", label),
		zap.Float64("confidence", confidence),
	)
	writeJSON(w, map[string]any{
		"predicted_class": label,
		"confidence":      confidence,
		"probabilities":   probs,
	})
}

// classify picks the class whose name appears in the filename; unknown
// names fall back to a hash so answers stay stable across calls.
func (s *Server) classify(filename string) (string, float64) {
	name := strings.ToLower(filename)
	h := fnv.New32a()
	h.Write([]byte(name))
	confidence := 0.60 + float64(h.Sum32()%40)/100 // [0.60, 0.99]

	for _, c := range s.Classes {
		if strings.Contains(name, strings.ToLower(c)) {
			return c, confidence
		}
	}
	return s.Classes[int(h.Sum32())%len(s.Classes)], confidence
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
