package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"nomad-visa-engine/internal/handlers"
)

const maxBodyBytes = 10 << 20

type lambdaHandler func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// adaptLambda serves an API Gateway proxy handler over net/http.
func adaptLambda(h lambdaHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeJSON(w, http.StatusRequestEntityTooLarge, handlers.Response{
				Success: false,
				Error:   "Request body too large",
			})
			return
		}

		query := make(map[string]string, len(r.URL.Query()))
		for k, v := range r.URL.Query() {
			if len(v) > 0 {
				query[k] = v[0]
			}
		}

		resp, err := h(r.Context(), events.APIGatewayProxyRequest{
			HTTPMethod:            r.Method,
			Path:                  r.URL.Path,
			QueryStringParameters: query,
			Body:                  string(body),
		})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, handlers.Response{
				Success: false,
				Error:   err.Error(),
			})
			return
		}

		for k, v := range resp.Headers {
			// CORS is owned by the rs/cors middleware here.
			if strings.HasPrefix(k, "Access-Control-") {
				continue
			}
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
