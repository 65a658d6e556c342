package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/AlexZinkM/disperse/docs"
	"github.com/AlexZinkM/disperse/internal/handler"
)

// SetupRouter sets up router with handlers. wallet may be nil when no key file
// path is configured.
func SetupRouter(session *handler.SessionHandler, wallet *handler.WalletHandler, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Session endpoints
	mux.HandleFunc("/session", session.Get)
	mux.HandleFunc("/session/connect", session.Connect)
	mux.HandleFunc("/session/disconnect", session.Disconnect)
	mux.HandleFunc("/session/input", session.Input)
	mux.HandleFunc("/session/submit", session.Submit)
	mux.HandleFunc("/session/retry", session.Retry)
	mux.HandleFunc("/session/acknowledge", session.Acknowledge)

	if wallet != nil {
		mux.HandleFunc("/wallet/generate", wallet.Generate)
		mux.HandleFunc("/wallet/balance", wallet.Balance)
	}

	return mux
}
