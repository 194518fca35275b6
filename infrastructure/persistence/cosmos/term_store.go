package cosmos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"go.uber.org/zap"

	"glossary-backend/application/ports"
	"glossary-backend/domain/entities"
)

// TermStore is the durable remote backend over an Azure Cosmos DB
// container. Terms are partitioned by /id, which trades name-lookup
// latency for uniform write distribution; name lookups go through queries
// instead of point reads.
type TermStore struct {
	client     *azcosmos.Client
	container  *azcosmos.ContainerClient
	database   string
	containerN string
	throughput int
	logger     *zap.Logger
}

// Options configures the Cosmos term store.
type Options struct {
	Endpoint   string
	Key        string
	Database   string
	Container  string
	Throughput int
}

// NewTermStore builds a Cosmos-backed store. With a key the client uses
// the key credential; otherwise it falls back to the ambient Azure
// identity chain.
func NewTermStore(opts Options, logger *zap.Logger) (*TermStore, error) {
	var client *azcosmos.Client
	if opts.Key != "" {
		cred, err := azcosmos.NewKeyCredential(opts.Key)
		if err != nil {
			return nil, fmt.Errorf("cosmos key credential: %w", err)
		}
		client, err = azcosmos.NewClientWithKey(opts.Endpoint, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("cosmos client: %w", err)
		}
	} else {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("azure credential: %w", err)
		}
		client, err = azcosmos.NewClient(opts.Endpoint, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("cosmos client: %w", err)
		}
	}

	return &TermStore{
		client:     client,
		database:   opts.Database,
		containerN: opts.Container,
		throughput: opts.Throughput,
		logger:     logger,
	}, nil
}

// Initialize provisions the database and container if they do not exist.
// The partition key is /id; manual throughput is requested only at
// container creation.
func (s *TermStore) Initialize(ctx context.Context) error {
	_, err := s.client.CreateDatabase(ctx, azcosmos.DatabaseProperties{ID: s.database}, nil)
	if err != nil && !isStatus(err, http.StatusConflict) {
		return fmt.Errorf("create database %q: %w", s.database, err)
	}

	db, err := s.client.NewDatabase(s.database)
	if err != nil {
		return fmt.Errorf("database client %q: %w", s.database, err)
	}

	throughput := azcosmos.NewManualThroughputProperties(int32(s.throughput))
	_, err = db.CreateContainer(ctx, azcosmos.ContainerProperties{
		ID: s.containerN,
		PartitionKeyDefinition: azcosmos.PartitionKeyDefinition{
			Paths: []string{"/id"},
		},
	}, &azcosmos.CreateContainerOptions{ThroughputProperties: &throughput})
	if err != nil && !isStatus(err, http.StatusConflict) {
		return fmt.Errorf("create container %q: %w", s.containerN, err)
	}

	container, err := db.NewContainer(s.containerN)
	if err != nil {
		return fmt.Errorf("container client %q: %w", s.containerN, err)
	}
	s.container = container

	s.logger.Info("Cosmos store initialized",
		zap.String("database", s.database),
		zap.String("container", s.containerN),
	)
	return nil
}

// List returns every term in the container, sorted by name under Japanese
// collation. Cosmos has no locale-aware ORDER BY, so the sort happens here.
func (s *TermStore) List(ctx context.Context) ([]*entities.Term, error) {
	terms, err := s.queryTerms(ctx,
		`SELECT * FROM c WHERE c.type = "term"`, nil)
	if err != nil {
		return nil, err
	}
	entities.SortByName(terms)
	return terms, nil
}

// Get performs a point read by (id, partition key = id). A remote 404 is
// translated to a nil term.
func (s *TermStore) Get(ctx context.Context, id string) (*entities.Term, error) {
	resp, err := s.container.ReadItem(ctx, azcosmos.NewPartitionKeyString(id), id, nil)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read term %s: %w", id, err)
	}

	var term entities.Term
	if err := json.Unmarshal(resp.Value, &term); err != nil {
		return nil, fmt.Errorf("decode term %s: %w", id, err)
	}
	return &term, nil
}

// FindDuplicateName looks up the first term with a case-insensitive exact
// name match. The partition key is /id, so this is always a cross-partition
// query.
func (s *TermStore) FindDuplicateName(ctx context.Context, name string) (*entities.Term, error) {
	terms, err := s.queryTerms(ctx,
		`SELECT TOP 1 * FROM c WHERE c.type = "term" AND LOWER(c.name) = @name`,
		[]azcosmos.QueryParameter{{Name: "@name", Value: entities.NormalizeName(name)}})
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, nil
	}
	return terms[0], nil
}

// Create persists a fresh term.
func (s *TermStore) Create(ctx context.Context, name string) (*entities.Term, error) {
	term := entities.NewTerm(name)
	payload, err := json.Marshal(term)
	if err != nil {
		return nil, fmt.Errorf("encode term: %w", err)
	}

	if _, err := s.container.CreateItem(ctx, azcosmos.NewPartitionKeyString(term.ID), payload, nil); err != nil {
		return nil, fmt.Errorf("create term %q: %w", term.Name, err)
	}
	return term, nil
}

// Update reads the record, overwrites description and category, and
// upserts it back. Returns nil for an unknown id.
func (s *TermStore) Update(ctx context.Context, id string, input ports.UpdateTermInput) (*entities.Term, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	existing.ApplyUpdate(input.Description, input.Category)
	payload, err := json.Marshal(existing)
	if err != nil {
		return nil, fmt.Errorf("encode term: %w", err)
	}

	if _, err := s.container.UpsertItem(ctx, azcosmos.NewPartitionKeyString(id), payload, nil); err != nil {
		return nil, fmt.Errorf("update term %s: %w", id, err)
	}
	return existing, nil
}

// Delete removes the term. A remote 404 means the term did not exist and
// is reported as false, never as an error.
func (s *TermStore) Delete(ctx context.Context, id string) (bool, error) {
	_, err := s.container.DeleteItem(ctx, azcosmos.NewPartitionKeyString(id), id, nil)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("delete term %s: %w", id, err)
	}
	return true, nil
}

// Search matches a case-insensitive substring over name or description.
// A blank query is equivalent to List.
func (s *TermStore) Search(ctx context.Context, query string) ([]*entities.Term, error) {
	needle := entities.NormalizeName(query)
	if needle == "" {
		return s.List(ctx)
	}

	return s.queryTerms(ctx,
		`SELECT * FROM c WHERE c.type = "term" AND (CONTAINS(LOWER(c.name), @q) OR CONTAINS(LOWER(c.description), @q))`,
		[]azcosmos.QueryParameter{{Name: "@q", Value: needle}})
}

// queryTerms runs a cross-partition query and decodes every page.
func (s *TermStore) queryTerms(ctx context.Context, query string, params []azcosmos.QueryParameter) ([]*entities.Term, error) {
	var opts *azcosmos.QueryOptions
	if len(params) > 0 {
		opts = &azcosmos.QueryOptions{QueryParameters: params}
	}

	// The zero partition key fans the query out across partitions.
	pager := s.container.NewQueryItemsPager(query, azcosmos.PartitionKey{}, opts)

	var terms []*entities.Term
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query terms: %w", err)
		}
		for _, raw := range page.Items {
			var term entities.Term
			if err := json.Unmarshal(raw, &term); err != nil {
				return nil, fmt.Errorf("decode term: %w", err)
			}
			terms = append(terms, &term)
		}
	}
	return terms, nil
}

// isStatus reports whether err is an Azure response error with the given
// HTTP status code.
func isStatus(err error, status int) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == status
}
