// Package sparql fetches flux tower metadata from a SPARQL endpoint of the
// TERN knowledge graph.
package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/flux-site-etl/internal/domain"
)

// DefaultEndpoint is the TERN knowledge graph repository.
const DefaultEndpoint = "https://graphdb.tern.org.au/repositories/knowledge_graph_core"

// DefaultQuery selects every flux tower with its identifiers, commissioning
// dates, geometry and sampling attributes, ordered by label.
const DefaultQuery = `
PREFIX tern: <https://w3id.org/tern/ontologies/tern/>
PREFIX wgs: <http://www.w3.org/2003/01/geo/wgs84_pos#>
PREFIX geosparql: <http://www.opengis.net/ont/geosparql#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX tern-loc: <https://w3id.org/tern/ontologies/loc/>

SELECT ?id ?label ?fluxnet_id ?date_commissioned ?date_decommissioned ?latitude ?longitude ?elevation ?time_step ?freq_hz
WHERE {
    ?id a tern:FluxTower ;
        rdfs:label ?label ;
        tern:fluxnetID ?fluxnet_id .

    OPTIONAL { ?id tern:dateCommissioned ?date_commissioned . }
    OPTIONAL { ?id tern:dateDecommissioned ?date_decommissioned . }
    OPTIONAL {
        ?id geosparql:hasGeometry ?geo .
        ?geo wgs:lat ?latitude ;
             wgs:long ?longitude .
        OPTIONAL { ?geo tern-loc:elevation ?elevation . }
    }
    OPTIONAL {
        ?id tern:hasAttribute ?time_step_attr .
        ?time_step_attr tern:attribute <http://linked.data.gov.au/def/tern-cv/ca60779d-4c00-470c-a6b6-70385753dff1> ;
            tern:hasSimpleValue ?time_step .
    }
    OPTIONAL {
        ?id tern:hasAttribute ?freq_hz_attr .
        ?freq_hz_attr tern:attribute <http://linked.data.gov.au/def/tern-cv/ce39d9fd-ef90-4540-881d-5b9e779d9842> ;
            tern:hasSimpleValue ?freq_hz .
    }
}
ORDER BY ?label
`

const (
	sourceName = "sparql"
	labelVar   = "label"
)

// Schema types the query variables. Variables not listed pass through as strings.
var Schema = domain.FieldSchema{
	labelVar:                     domain.KindLabel,
	domain.ColDateCommissioned:   domain.KindDate,
	domain.ColDateDecommissioned: domain.KindDate,
	domain.ColLatitude:           domain.KindNumber,
	domain.ColLongitude:          domain.KindNumber,
	domain.ColElevation:          domain.KindNumber,
	"time_step":                  domain.KindNumber,
}

// Config configures the client.
type Config struct {
	Endpoint string
	Query    string
	Timeout  time.Duration
}

// Client implements pipeline.Source against a SPARQL endpoint.
type Client struct {
	endpoint   string
	query      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a SPARQL client. Empty endpoint and query fall back to
// DefaultEndpoint and DefaultQuery.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	c := &Client{
		endpoint: cfg.Endpoint,
		query:    cfg.Query,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.query == "" {
		c.query = DefaultQuery
	}
	return c
}

// Name identifies the source.
func (c *Client) Name() string { return sourceName }

// Fetch runs the query and decodes every tower with complete geometry.
// Towers missing latitude, longitude or elevation are dropped.
func (c *Client) Fetch(ctx context.Context) (domain.SourceData, error) {
	res, err := c.doRequest(ctx)
	if err != nil {
		return domain.SourceData{}, err
	}

	data := domain.SourceData{
		Source: sourceName,
		Rule:   domain.DecommissionDateRule{},
	}
	for _, v := range res.Head.Vars {
		if v != labelVar {
			data.Columns = append(data.Columns, v)
		}
	}

	for _, b := range res.Results.Bindings {
		fields := make(map[string]*string, len(res.Head.Vars))
		for _, v := range res.Head.Vars {
			if term, ok := b[v]; ok {
				value := term.Value
				fields[v] = &value
			} else {
				fields[v] = nil
			}
		}

		site, err := domain.SiteFromFields(labelVar, fields, Schema)
		if err != nil {
			return domain.SourceData{}, fmt.Errorf("decode binding: %w", err)
		}
		if site.Latitude == nil || site.Longitude == nil || site.Elevation == nil {
			c.logger.Debug("dropping tower without complete geometry", "site", site.Name)
			data.Dropped++
			continue
		}
		site.IsDecommissioned = site.DateDecommissioned != nil
		data.Sites = append(data.Sites, site)
	}

	c.logger.Info("sparql sites fetched",
		"endpoint", c.endpoint,
		"sites", len(data.Sites),
		"dropped", data.Dropped,
	)
	return data, nil
}

func (c *Client) doRequest(ctx context.Context) (results, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(c.query))
	if err != nil {
		return results{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/sparql-query")
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return results{}, fmt.Errorf("sparql request: %w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return results{}, fmt.Errorf("sparql endpoint error: status %d: %s: %w", resp.StatusCode, body, domain.ErrTransport)
	}

	var res results
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return results{}, fmt.Errorf("decode response: %w", err)
	}
	return res, nil
}

// SPARQL 1.1 query results JSON format.

type results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]term `json:"bindings"`
	} `json:"results"`
}

type term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
}
