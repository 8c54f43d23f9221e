package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AndrewLester/sntpal/internal/ntp"
	"github.com/AndrewLester/sntpal/internal/ntptest"
	"github.com/AndrewLester/sntpal/pkg/sntp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func startReport(t *testing.T, s *ntptest.Server) *httptest.Server {
	t.Helper()
	require.NoError(t, s.Start())
	t.Cleanup(func() { s.Close() })

	log := zaptest.NewLogger(t)
	rep := &report{
		defaultServer: s.Host(),
		opts: sntp.Options{
			Port:                s.Port(),
			Timeout:             time.Second,
			SkipReferenceLookup: true,
			Logger:              log,
		},
		log: log,
	}
	srv := httptest.NewServer(rep.handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestMeasure(t *testing.T) {
	srv := startReport(t, &ntptest.Server{Stratum: 1, ReferenceID: [4]byte{'G', 'P', 'S', 0}, Offset: time.Second})

	res, err := http.Get(srv.URL + "/measure")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var result sntp.Result
	require.NoError(t, json.NewDecoder(res.Body).Decode(&result))
	require.InDelta(t, 1000.0, result.Offset, 100)
	require.Equal(t, "GPS", result.Reference.String())
	require.Len(t, result.Raw, ntp.PacketSize)
}

func TestMeasureFailure(t *testing.T) {
	srv := startReport(t, &ntptest.Server{Stratum: 2, Leap: ntp.NOSYNC})

	res, err := http.Get(srv.URL + "/measure")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusBadGateway, res.StatusCode)

	var body measureError
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Equal(t, "server unsynchronized", body.Kind)
}

func TestIndex(t *testing.T) {
	srv := startReport(t, &ntptest.Server{Stratum: 1, ReferenceID: [4]byte{'P', 'P', 'S', 0}})

	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "PPS")
	require.Contains(t, string(body), "primary reference")

	res, err = http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}
