package main

import (
	"encoding/json"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/AndrewLester/sntpal/internal/templates"
	"github.com/AndrewLester/sntpal/pkg/sntp"
	"go.uber.org/zap"
)

type measureError struct {
	Server string `json:"server"`
	Error  string `json:"error"`
	Kind   string `json:"kind"`
}

type report struct {
	defaultServer string
	opts          sntp.Options
	log           *zap.Logger
}

func (rep *report) server(r *http.Request) string {
	if server := r.URL.Query().Get("server"); server != "" {
		return server
	}
	return rep.defaultServer
}

func (rep *report) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	server := rep.server(r)
	result, err := sntp.Query(r.Context(), server, rep.opts)
	data := map[string]interface{}{
		"Server": server,
		"Time":   sntp.SystemClock{}.Now().Format(time.RFC3339Nano),
		"Result": result,
	}
	if err != nil {
		data["Error"] = err.Error()
		data["Kind"] = sntp.Kind(err).String()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := templates.TemplateExecutor.ExecuteTemplate(w, "index.tmpl.html", data); err != nil {
		rep.log.Error("render index", zap.Error(err))
	}
}

func (rep *report) measure(w http.ResponseWriter, r *http.Request) {
	server := rep.server(r)
	result, err := sntp.Query(r.Context(), server, rep.opts)

	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	if err != nil {
		rep.log.Warn("measure failed", zap.String("server", server), zap.Error(err))
		w.WriteHeader(http.StatusBadGateway)
		encoder.Encode(measureError{Server: server, Error: err.Error(), Kind: sntp.Kind(err).String()})
		return
	}
	encoder.Encode(result)
}

func (rep *report) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", rep.index)
	mux.HandleFunc("/measure", rep.measure)
	return mux
}

func main() {
	log, err := sntp.NewLogger(false)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	host := os.Getenv("REPORT_HOST")
	port := os.Getenv("REPORT_PORT")
	if port == "" {
		port = "8080"
	}
	server := os.Getenv("NTP_SERVER")
	if server == "" {
		server = sntp.DefaultServer
	}

	rep := &report{defaultServer: server, opts: sntp.Options{Logger: log}, log: log}

	address := net.JoinHostPort(host, port)
	log.Info("listening", zap.String("address", address), zap.String("server", server))
	if err := http.ListenAndServe(address, rep.handler()); err != nil {
		log.Fatal("serve", zap.Error(err))
	}
}
