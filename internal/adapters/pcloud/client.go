package pcloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.pcloud.com"

	// resultAlreadyExists is pCloud's "File or folder already exists" code,
	// treated as success during folder provisioning.
	resultAlreadyExists = 2004
)

// Client implements ports.RemoteStore against the pCloud HTTP API.
type Client struct {
	baseURL   string
	username  string
	password  string
	authToken string
	client    *http.Client
	logger    *log.Logger
}

// NewClient creates a pCloud client. Call Login before any other method.
func NewClient(username, password string, logger *log.Logger) *Client {
	return &Client{
		baseURL:  defaultBaseURL,
		username: username,
		password: password,
		client: &http.Client{
			Timeout: 5 * time.Minute, // uploads can be large
		},
		logger: logger,
	}
}

type apiResult struct {
	Result int    `json:"result"`
	Error  string `json:"error"`
}

func (r apiResult) err(op string) error {
	if r.Result == 0 {
		return nil
	}
	return fmt.Errorf("pcloud %s failed: %s (code %d)", op, r.Error, r.Result)
}

// Login obtains an auth token for the configured credentials.
func (c *Client) Login(ctx context.Context) error {
	params := url.Values{}
	params.Set("getauth", "1")
	params.Set("logout", "1")
	params.Set("username", c.username)
	params.Set("password", c.password)

	var resp struct {
		apiResult
		Auth string `json:"auth"`
	}
	if err := c.get(ctx, "userinfo", params, &resp); err != nil {
		return err
	}
	if err := resp.err("login"); err != nil {
		return err
	}
	if resp.Auth == "" {
		return fmt.Errorf("pcloud login returned no auth token")
	}

	c.authToken = resp.Auth
	c.logger.Printf("authenticated with pCloud as %s", c.username)
	return nil
}

// EnsurePath walks the folder path one segment at a time starting from the
// root, creating each folder and reusing it when it already exists, and
// returns the ID of the final folder. Concurrent calls for the same path
// are safe: the "already exists" response is resolved to the existing ID.
func (c *Client) EnsurePath(ctx context.Context, segments []string) (int64, error) {
	var parentID int64
	var walked []string

	for _, segment := range segments {
		if segment == "" {
			continue
		}
		walked = append(walked, segment)

		id, err := c.createFolder(ctx, parentID, segment, "/"+strings.Join(walked, "/"))
		if err != nil {
			return 0, fmt.Errorf("failed to ensure folder %q: %w", segment, err)
		}
		parentID = id
	}
	return parentID, nil
}

// createFolder creates one folder under parentID, tolerating "already
// exists" by resolving the existing folder's ID via listfolder.
func (c *Client) createFolder(ctx context.Context, parentID int64, name, fullPath string) (int64, error) {
	params := url.Values{}
	params.Set("folderid", strconv.FormatInt(parentID, 10))
	params.Set("name", name)

	var resp struct {
		apiResult
		Metadata struct {
			FolderID int64 `json:"folderid"`
		} `json:"metadata"`
	}
	if err := c.get(ctx, "createfolder", params, &resp); err != nil {
		return 0, err
	}
	switch resp.Result {
	case 0:
		return resp.Metadata.FolderID, nil
	case resultAlreadyExists:
		return c.folderID(ctx, fullPath)
	default:
		return 0, resp.err("createfolder")
	}
}

// folderID resolves the ID of an existing folder by path.
func (c *Client) folderID(ctx context.Context, path string) (int64, error) {
	params := url.Values{}
	params.Set("path", path)
	params.Set("nofiles", "1")

	var resp struct {
		apiResult
		Metadata struct {
			FolderID int64 `json:"folderid"`
		} `json:"metadata"`
	}
	if err := c.get(ctx, "listfolder", params, &resp); err != nil {
		return 0, err
	}
	if err := resp.err("listfolder"); err != nil {
		return 0, err
	}
	return resp.Metadata.FolderID, nil
}

// Upload stores the file contents under the given folder and returns the
// remote file ID.
func (c *Client) Upload(ctx context.Context, folderID int64, filename string, data io.Reader) (int64, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return 0, fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return 0, fmt.Errorf("failed to read upload data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize upload body: %w", err)
	}

	params := url.Values{}
	params.Set("folderid", strconv.FormatInt(folderID, 10))
	params.Set("filename", filename)
	params.Set("nopartial", "1")
	params.Set("auth", c.authToken)

	endpoint := fmt.Sprintf("%s/uploadfile?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	httpResp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("upload request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("upload failed with status %d", httpResp.StatusCode)
	}

	var resp struct {
		apiResult
		FileIDs []int64 `json:"fileids"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return 0, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if err := resp.err("uploadfile"); err != nil {
		return 0, err
	}
	if len(resp.FileIDs) == 0 {
		return 0, fmt.Errorf("upload failed: no file ID returned")
	}

	c.logger.Printf("uploaded %s to folder %d (file %d)", filename, folderID, resp.FileIDs[0])
	return resp.FileIDs[0], nil
}

// get performs an authenticated GET against one API method and decodes the
// JSON response into out.
func (c *Client) get(ctx context.Context, method string, params url.Values, out interface{}) error {
	if c.authToken != "" && params.Get("auth") == "" && params.Get("getauth") == "" {
		params.Set("auth", c.authToken)
	}

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, method, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("pcloud %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pcloud %s returned status %d: %s", method, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}
