package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/looplj/mediahub/internal/gen/generator"
	"github.com/looplj/mediahub/internal/gen/normalizer"
	"github.com/looplj/mediahub/internal/gen/registry"
	"github.com/looplj/mediahub/internal/httpclient"
)

type stubDoer struct {
	response *httpclient.Response
	err      error
}

func (s *stubDoer) Do(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.response, nil
}

func newTestRouter(t *testing.T, doer httpclient.Doer) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	reg := registry.Default()

	norm, err := normalizer.New(reg, normalizer.Config{BaseURL: "https://fal.run", APIKey: "k"})
	require.NoError(t, err)

	g, err := generator.New(generator.Options{
		Registry:   reg,
		Normalizer: norm,
		Transport:  doer,
	})
	require.NoError(t, err)

	handlers := NewGenerationHandlers(GenerationHandlersParams{Generator: g})

	router := gin.New()
	router.GET("/v1/models", handlers.ListModels)
	router.POST("/v1/generations", handlers.CreateGeneration)

	return router
}

func TestListModels(t *testing.T) {
	router := newTestRouter(t, &stubDoer{})

	t.Run("full catalog", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/models", nil))

		require.Equal(t, http.StatusOK, w.Code)

		data := gjson.Get(w.Body.String(), "data")
		require.True(t, data.IsArray())
		require.Len(t, data.Array(), len(registry.Default().All()))
	})

	t.Run("filtered by mode", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/models?mode=text-to-video", nil))

		require.Equal(t, http.StatusOK, w.Code)

		for _, m := range gjson.Get(w.Body.String(), "data").Array() {
			require.Equal(t, "text-to-video", m.Get("mode").String())
		}
	})

	t.Run("credential models are flagged", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/models", nil))

		body := w.Body.String()
		flagged := gjson.Get(body, `data.#(id=="openai/gpt-image-1").requires_credential`)
		require.True(t, flagged.Bool())

		price := gjson.Get(body, `data.#(id=="openai/gpt-image-1").price_per_output`)
		require.True(t, price.Exists())
	})
}

func TestCreateGeneration(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router := newTestRouter(t, &stubDoer{response: &httpclient.Response{
			StatusCode: http.StatusOK,
			Body:       []byte(`{"images":[{"url":"https://cdn/x.png"}],"seed":5}`),
		}})

		payload := `{"prompt":"a red fox","model_id":"fal-ai/flux/dev","width":1024,"height":768}`

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/generations", strings.NewReader(payload)))

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "https://cdn/x.png", gjson.Get(w.Body.String(), "images.0.url").String())
		require.Equal(t, int64(5), gjson.Get(w.Body.String(), "seed").Int())
	})

	t.Run("unknown model maps to 404", func(t *testing.T) {
		router := newTestRouter(t, &stubDoer{})

		payload := `{"prompt":"a red fox","model_id":"nope/nope"}`

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/generations", strings.NewReader(payload)))

		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("validation failure maps to 400", func(t *testing.T) {
		router := newTestRouter(t, &stubDoer{})

		payload := `{"prompt":"","model_id":"fal-ai/flux/dev"}`

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/generations", strings.NewReader(payload)))

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rate limited upstream maps to 429 with a short message", func(t *testing.T) {
		router := newTestRouter(t, &stubDoer{err: &httpclient.Error{
			StatusCode: http.StatusTooManyRequests,
			Body:       []byte(`{"detail":"internal quota exhausted for tenant 42"}`),
		}})

		payload := `{"prompt":"a red fox","model_id":"fal-ai/flux/dev"}`

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/generations", strings.NewReader(payload)))

		require.Equal(t, http.StatusTooManyRequests, w.Code)

		// The remote detail stays in the logs, not in the client
		// response.
		require.NotContains(t, w.Body.String(), "tenant 42")
	})

	t.Run("unrecognized upstream response maps to 502", func(t *testing.T) {
		router := newTestRouter(t, &stubDoer{response: &httpclient.Response{
			StatusCode: http.StatusOK,
			Body:       []byte(`{"surprise":true}`),
		}})

		payload := `{"prompt":"a red fox","model_id":"fal-ai/flux/dev"}`

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/generations", strings.NewReader(payload)))

		require.Equal(t, http.StatusBadGateway, w.Code)
	})
}
