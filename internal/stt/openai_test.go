package stt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fmueller/chunkscribe/internal/pipeline"
	"github.com/stretchr/testify/require"
)

var _ pipeline.Transcriber = (*OpenAI)(nil)

type capturedRequest struct {
	path     string
	auth     string
	model    string
	language string
	fileName string
	fileBody string
}

func newTranscriptionServer(t *testing.T, status int, body any) (*httptest.Server, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		captured.model = r.FormValue("model")
		captured.language = r.FormValue("language")

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		captured.fileName = header.Filename
		captured.fileBody = string(content)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	return srv, captured
}

func writeAudio(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lecture_part_1.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3-fake-mp3"), 0o644))
	return path
}

func TestOpenAITranscribeReturnsTextVerbatim(t *testing.T) {
	t.Parallel()

	srv, captured := newTranscriptionServer(t, http.StatusOK, map[string]string{"text": "  Hello there.\nSecond line "})

	client, err := NewOpenAI(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Language: "HE"})
	require.NoError(t, err)

	text, err := client.Transcribe(context.Background(), writeAudio(t))
	require.NoError(t, err)
	require.Equal(t, "  Hello there.\nSecond line ", text)

	require.Equal(t, "/v1/audio/transcriptions", captured.path)
	require.Equal(t, "Bearer sk-test", captured.auth)
	require.Equal(t, DefaultModel, captured.model)
	require.Equal(t, "he", captured.language)
	require.Equal(t, "lecture_part_1.mp3", captured.fileName)
	require.Equal(t, "ID3-fake-mp3", captured.fileBody)
}

func TestOpenAITranscribeOmitsAutoLanguage(t *testing.T) {
	t.Parallel()

	srv, captured := newTranscriptionServer(t, http.StatusOK, map[string]string{"text": "ok"})

	client, err := NewOpenAI(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "whisper-1", Language: "auto"})
	require.NoError(t, err)

	_, err = client.Transcribe(context.Background(), writeAudio(t))
	require.NoError(t, err)
	require.Equal(t, "whisper-1", captured.model)
	require.Empty(t, captured.language)
}

func TestOpenAITranscribeSurfacesAPIError(t *testing.T) {
	t.Parallel()

	srv, _ := newTranscriptionServer(t, http.StatusInternalServerError, map[string]any{
		"error": map[string]any{"message": "model overloaded", "type": "server_error"},
	})

	client, err := NewOpenAI(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = client.Transcribe(context.Background(), writeAudio(t))
	require.Error(t, err)
	require.Contains(t, err.Error(), "http 500")
	require.Contains(t, err.Error(), "model overloaded")
}

func TestNewOpenAIRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewOpenAI(OpenAIOptions{APIKey: " "})
	require.Error(t, err)
}

func TestTranscribeRequiresAudioPath(t *testing.T) {
	t.Parallel()

	client, err := NewOpenAI(OpenAIOptions{APIKey: "sk-test"})
	require.NoError(t, err)

	_, err = client.Transcribe(context.Background(), "")
	require.Error(t, err)
}
