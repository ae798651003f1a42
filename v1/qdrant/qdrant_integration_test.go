package qdrant

import (
	"context"
	"fmt"
	"math"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	qc "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/qdrant-connector/v1/logger"
	"github.com/Aleph-Alpha/qdrant-connector/v1/vectordb"
)

// QdrantContainer is a running Qdrant with its REST and gRPC ports mapped.
type QdrantContainer struct {
	testcontainers.Container
	Host     string
	RESTPort string
	GRPCPort int
}

// Endpoint is the REST base URL of the container.
func (c *QdrantContainer) Endpoint() string {
	return "http://" + net.JoinHostPort(c.Host, c.RESTPort)
}

// setupQdrantContainer starts Qdrant and waits until /healthz answers.
func setupQdrantContainer(ctx context.Context) (*QdrantContainer, error) {
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portBindings := nat.PortMap{
		"6333/tcp": []nat.PortBinding{{HostPort: strconv.Itoa(port)}},
	}

	req := testcontainers.ContainerRequest{
		Image:        "qdrant/qdrant:v1.16.0",
		ExposedPorts: []string{"6333/tcp", "6334/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForHTTP("/healthz").
			WithPort("6333/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start qdrant container: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	restPort, err := ctr.MappedPort(ctx, nat.Port("6333/tcp"))
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped REST port: %w", err)
	}
	grpcPort, err := ctr.MappedPort(ctx, nat.Port("6334/tcp"))
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped gRPC port: %w", err)
	}

	return &QdrantContainer{
		Container: ctr,
		Host:      host,
		RESTPort:  restPort.Port(),
		GRPCPort:  grpcPort.Int(),
	}, nil
}

// getFreePort gets a free port from the OS
func getFreePort() (int, error) {
	addr, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = addr.Close()
	}()
	return addr.Addr().(*net.TCPAddr).Port, nil
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

func TestQdrantIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	ctr, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := ctr.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()
	t.Logf("Using Qdrant on %s", ctr.Endpoint())

	// The official gRPC client reads back what the REST client wrote.
	grpc, err := qc.NewClient(&qc.Config{Host: ctr.Host, Port: ctr.GRPCPort})
	require.NoError(t, err)
	defer func() {
		_ = grpc.Close()
	}()

	var client *QdrantClient
	var adapter *Adapter
	app := fxtest.New(t,
		fx.Provide(
			func() logger.Config { return logger.Config{Level: logger.Debug, ServiceName: "qdrant-it"} },
			func() *Config {
				return FromEndpoint(ctr.Endpoint()).WithVectorSize(4).WithPageSize(2)
			},
		),
		logger.FXModule,
		FXModule,
		fx.Populate(&client, &adapter),
	)
	app.RequireStart()
	defer app.RequireStop()

	const collection = "memories"

	t.Run("CreateCollection", func(t *testing.T) {
		require.NoError(t, client.CreateCollection(ctx, collection))

		exists, err := grpc.CollectionExists(ctx, collection)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = client.DoesCollectionExist(ctx, collection)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = client.DoesCollectionExist(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("CreateIndex", func(t *testing.T) {
		for _, st := range []struct {
			field string
			typ   PayloadSchemaType
		}{
			{PayloadIDKey, Keyword},
			{PayloadTagsKey, Keyword},
			{"year", Integer},
			{"body", Text},
		} {
			require.NoError(t, client.CreateIndex(ctx, collection, st.field, st.typ))
		}

		info, err := client.GetCollectionInfo(ctx, collection)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), info.VectorSize)
		assert.Equal(t, "Cosine", info.Distance)
		assert.Equal(t, "keyword", info.PayloadSchema[PayloadIDKey])
		assert.Equal(t, "integer", info.PayloadSchema["year"])
	})

	records := []VectorRecord{
		{PointID: "1", Embedding: []float32{1, 0, 0, 0}, Payload: map[string]any{PayloadIDKey: "a", "year": 2021}, Tags: []string{"red"}},
		{PointID: "2", Embedding: []float32{0.9, 0.1, 0, 0}, Payload: map[string]any{PayloadIDKey: "b", "year": 2022}, Tags: []string{"red", "blue"}},
		{PointID: "3", Embedding: []float32{0, 1, 0, 0}, Payload: map[string]any{PayloadIDKey: "c", "year": 2023}, Tags: []string{"blue"}},
		{PointID: NewPointID(), Embedding: []float32{0, 0, 1, 0}, Payload: map[string]any{PayloadIDKey: "d", "year": 2024}},
	}

	t.Run("UpsertVectors", func(t *testing.T) {
		require.NoError(t, client.UpsertVectors(ctx, collection, records))

		count, err := grpc.Count(ctx, &qc.CountPoints{CollectionName: collection, Exact: qc.PtrOf(true)})
		require.NoError(t, err)
		assert.Equal(t, uint64(len(records)), count)

		points, err := grpc.Get(ctx, &qc.GetPoints{
			CollectionName: collection,
			Ids:            []*qc.PointId{qc.NewIDNum(2)},
			WithPayload:    qc.NewWithPayload(true),
		})
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, "b", points[0].Payload[PayloadIDKey].GetStringValue())
		assert.Len(t, points[0].Payload[PayloadTagsKey].GetListValue().GetValues(), 2)
	})

	t.Run("GetVectorsById", func(t *testing.T) {
		var got []VectorRecord
		for rec, err := range client.GetVectorsById(ctx, collection, []string{"1", "2", "3", "99"}, true) {
			require.NoError(t, err)
			got = append(got, rec)
		}
		require.Len(t, got, 3)
		for _, rec := range got {
			assert.Len(t, rec.Embedding, 4)
		}
	})

	t.Run("GetVectorByPayloadId", func(t *testing.T) {
		rec, err := client.GetVectorByPayloadId(ctx, collection, "c", true)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "3", rec.PointID)
		assert.Equal(t, []string{"blue"}, rec.Tags)

		rec, err = client.GetVectorByPayloadId(ctx, collection, "zzz", false)
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("FindNearestInCollection", func(t *testing.T) {
		var ids []string
		var last = math.Inf(1)
		for hit, err := range client.FindNearestInCollection(ctx, collection, []float32{1, 0, 0, 0}, math.Inf(-1), SearchOptions{Top: 3}) {
			require.NoError(t, err)
			assert.LessOrEqual(t, hit.Score, last)
			last = hit.Score
			ids = append(ids, hit.Record.PointID)
		}
		require.Len(t, ids, 3)
		assert.Equal(t, []string{"1", "2"}, ids[:2])

		ids = ids[:0]
		for hit, err := range client.FindNearestInCollection(ctx, collection, []float32{1, 0, 0, 0}, 0.5, SearchOptions{Top: 10}) {
			require.NoError(t, err)
			assert.GreaterOrEqual(t, hit.Score, 0.5)
			ids = append(ids, hit.Record.PointID)
		}
		assert.Equal(t, []string{"1", "2"}, ids)

		ids = ids[:0]
		gte := 2022.0
		opts := SearchOptions{
			Top:          10,
			Filter:       NewFilter().Must(RangeCondition{Key: "year", Range: Range{Gte: &gte}}),
			RequiredTags: []string{"blue"},
		}
		for hit, err := range client.FindNearestInCollection(ctx, collection, []float32{1, 0, 0, 0}, math.Inf(-1), opts) {
			require.NoError(t, err)
			ids = append(ids, hit.Record.PointID)
		}
		assert.Equal(t, []string{"2", "3"}, ids)
	})

	t.Run("OverwriteFilterable", func(t *testing.T) {
		require.NoError(t, client.OverwriteFilterable(ctx, collection, "1", map[string]any{"year": 1999}))

		rec, err := client.GetVectorByPayloadId(ctx, collection, "a", false)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, map[string]any{"year": float64(1999)}, rec.Payload[PayloadFilterableKey])
		assert.EqualValues(t, 2021, rec.Payload["year"])
		assert.Equal(t, []string{"red"}, rec.Tags)

		err = client.OverwriteFilterable(ctx, collection, "999", map[string]any{"year": 1})
		assert.True(t, IsNotFound(err))
	})

	t.Run("Adapter", func(t *testing.T) {
		require.NoError(t, adapter.EnsureCollection(ctx, "adapter_docs", 4))
		require.NoError(t, adapter.EnsureCollection(ctx, "adapter_docs", 4))
		require.NoError(t, adapter.Insert(ctx, "adapter_docs", []vectordb.EmbeddingInput{
			{ID: "10", Vector: []float32{1, 0, 0, 0}, Payload: map[string]any{"custom": map[string]any{"kind": "x"}}},
			{ID: "11", Vector: []float32{0, 1, 0, 0}, Payload: map[string]any{"custom": map[string]any{"kind": "y"}}},
		}))

		results, err := adapter.Search(ctx, vectordb.SearchRequest{
			CollectionName: "adapter_docs",
			Vector:         []float32{1, 0, 0, 0},
			TopK:           5,
			Filters:        vectordb.NewFilterSet(vectordb.Must(vectordb.NewUserMatch("kind", "y"))),
		})
		require.NoError(t, err)
		require.Len(t, results[0], 1)
		assert.Equal(t, "11", results[0][0].ID)

		require.NoError(t, adapter.Delete(ctx, "adapter_docs", []string{"10", "11"}))
		col, err := adapter.GetCollection(ctx, "adapter_docs")
		require.NoError(t, err)
		assert.Equal(t, 4, col.VectorSize)

		names, err := adapter.ListCollections(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{collection, "adapter_docs"}, names)
	})

	t.Run("DeleteVectors", func(t *testing.T) {
		require.NoError(t, client.DeleteVectorByPayloadId(ctx, collection, "b"))
		require.NoError(t, client.DeleteVectorByPayloadId(ctx, collection, "b"))
		require.NoError(t, client.DeleteVectorsById(ctx, collection, []string{"3"}))

		count, err := grpc.Count(ctx, &qc.CountPoints{CollectionName: collection, Exact: qc.PtrOf(true)})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), count)
	})

	t.Run("Errors", func(t *testing.T) {
		err := client.CreateIndex(ctx, "nope", "field", Keyword)
		assert.True(t, IsNotFound(err))

		err = client.UpsertVectors(ctx, collection, []VectorRecord{{PointID: "7", Embedding: []float32{1, 2}}})
		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, 400, apiErr.StatusCode)
		assert.NotEmpty(t, apiErr.Message)
	})

	t.Run("DeleteCollection", func(t *testing.T) {
		require.NoError(t, client.DeleteCollection(ctx, collection))
		require.NoError(t, client.DeleteCollection(ctx, collection))

		exists, err := grpc.CollectionExists(ctx, collection)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestQdrantLifecycleHealthCheckFails(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	port, err := getFreePort()
	require.NoError(t, err)

	app := fx.New(
		fx.Provide(func() *Config {
			return FromEndpoint("http://localhost:" + strconv.Itoa(port)).WithTimeout(time.Second)
		}),
		FXModule,
		fx.Invoke(func(*QdrantClient) {}),
		fx.NopLogger,
	)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = app.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport failure")
}
