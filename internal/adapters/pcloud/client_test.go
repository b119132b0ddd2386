package pcloud

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: "user@example.com",
		password: "secret",
		client:   &http.Client{Timeout: 5 * time.Second},
		logger:   log.New(io.Discard, "", 0),
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/userinfo", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("getauth"))
		assert.Equal(t, "user@example.com", q.Get("username"))
		assert.Equal(t, "secret", q.Get("password"))
		fmt.Fprint(w, `{"result": 0, "auth": "token-123"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	require.NoError(t, c.Login(context.Background()))
	assert.Equal(t, "token-123", c.authToken)
}

func TestLoginBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": 2000, "error": "Log in failed."}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.Login(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Log in failed.")
}

func TestEnsurePathCreatesFolders(t *testing.T) {
	var created []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/createfolder", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "t", q.Get("auth"))
		created = append(created, q.Get("folderid")+":"+q.Get("name"))
		fmt.Fprintf(w, `{"result": 0, "metadata": {"folderid": %d}}`, 100+len(created))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.authToken = "t"

	id, err := c.EnsurePath(context.Background(), []string{"Music", "YouTube", "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(103), id)
	assert.Equal(t, []string{"0:Music", "101:YouTube", "102:2024-01-01"}, created)
}

func TestEnsurePathReusesExistingFolder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/createfolder":
			fmt.Fprint(w, `{"result": 2004, "error": "File or folder already exists."}`)
		case "/listfolder":
			assert.Equal(t, "/Music", r.URL.Query().Get("path"))
			assert.Equal(t, "1", r.URL.Query().Get("nofiles"))
			fmt.Fprint(w, `{"result": 0, "metadata": {"folderid": 55}}`)
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.authToken = "t"

	id, err := c.EnsurePath(context.Background(), []string{"Music"})
	require.NoError(t, err)
	assert.Equal(t, int64(55), id)
}

func TestEnsurePathSkipsEmptySegments(t *testing.T) {
	var names []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		names = append(names, r.URL.Query().Get("name"))
		fmt.Fprint(w, `{"result": 0, "metadata": {"folderid": 9}}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.authToken = "t"

	_, err := c.EnsurePath(context.Background(), []string{"", "Music", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"Music"}, names)
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/uploadfile", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		q := r.URL.Query()
		assert.Equal(t, "77", q.Get("folderid"))
		assert.Equal(t, "song.mp3", q.Get("filename"))
		assert.Equal(t, "1", q.Get("nopartial"))
		assert.Equal(t, "t", q.Get("auth"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "song.mp3", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "mp3 bytes", string(data))

		fmt.Fprint(w, `{"result": 0, "fileids": [4242]}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.authToken = "t"

	fileID, err := c.Upload(context.Background(), 77, "song.mp3", strings.NewReader("mp3 bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(4242), fileID)
}

func TestUploadAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": 2008, "error": "User is over quota."}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.authToken = "t"

	_, err := c.Upload(context.Background(), 77, "song.mp3", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User is over quota.")
}

func TestUploadNoFileID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": 0, "fileids": []}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.authToken = "t"

	_, err := c.Upload(context.Background(), 77, "song.mp3", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no file ID")
}
