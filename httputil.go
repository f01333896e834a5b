package tracker

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/sirupsen/logrus"
)

// diskCache is an http.RoundTripper that keeps successful responses on disk for the day.
type diskCache struct {
	base http.RoundTripper
	dir  string
	log  logrus.FieldLogger
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// the key contains the day, so the cache expires every day.
	key := fmt.Sprintf("%s %s %s", date.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("btc-%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		c.log.WithField("url", req.URL.Path).Debug("cache hit")
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{
		"method": resp.Request.Method,
		"host":   resp.Request.URL.Host,
		"path":   resp.Request.URL.Path,
		"status": resp.Status,
	}).Debug("http round trip")
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		c.log.WithError(err).Warn("cache write failed (ignored)")
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) error {
	// DumpResponse reads the body and replaces it with an in-memory copy.
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o600)
}

// daily returns a client that caches responses on disk in dir for the day.
func daily(dir string, log logrus.FieldLogger) *http.Client {
	return &http.Client{Transport: &diskCache{base: http.DefaultTransport, dir: dir, log: log}}
}

// jwget performs an HTTP GET request and decodes the JSON response into data.
// Numbers are decoded as json.Number to keep every digit.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(data)
}
