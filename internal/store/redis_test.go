package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/suite"

	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/store"
)

type RedisStoreTestSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	store *store.Redis
}

func (s *RedisStoreTestSuite) SetupTest() {
	client, mock := redismock.NewClientMock()
	s.mock = mock
	st, err := store.NewRedis(&store.RedisConfig{Client: client, History: 5})
	s.Require().NoError(err)
	s.store = st
}

func (s *RedisStoreTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisStoreTestSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreTestSuite))
}

func (s *RedisStoreTestSuite) TestSavePass() {
	ctx := context.Background()
	p := samplePass("p1", "Standard")
	data, err := json.Marshal(p)
	s.Require().NoError(err)

	s.mock.ExpectGet("richgo:league:Standard:latest").RedisNil()
	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("richgo:pass:p1", string(data), 0).SetVal("OK")
	s.mock.ExpectSet("richgo:league:Standard:latest", "p1", 0).SetVal("OK")
	s.mock.ExpectLPush("richgo:league:Standard:passes", "p1").SetVal(1)
	s.mock.ExpectLTrim("richgo:league:Standard:passes", 0, 4).SetVal("OK")
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.store.SavePass(ctx, p))
}

func (s *RedisStoreTestSuite) TestSavePassKeepsLatestBeyondTTL() {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	st, err := store.NewRedis(&store.RedisConfig{Client: client, TTL: time.Hour, History: 5})
	s.Require().NoError(err)

	p := samplePass("p1", "Standard")
	data, err := json.Marshal(p)
	s.Require().NoError(err)

	// the new pass and the latest pointer are written without expiry,
	// only the superseded pass p0 starts its TTL
	mock.ExpectGet("richgo:league:Standard:latest").SetVal("p0")
	mock.ExpectTxPipeline()
	mock.ExpectSet("richgo:pass:p1", string(data), 0).SetVal("OK")
	mock.ExpectSet("richgo:league:Standard:latest", "p1", 0).SetVal("OK")
	mock.ExpectLPush("richgo:league:Standard:passes", "p1").SetVal(2)
	mock.ExpectLTrim("richgo:league:Standard:passes", 0, 4).SetVal("OK")
	mock.ExpectExpire("richgo:pass:p0", time.Hour).SetVal(true)
	mock.ExpectTxPipelineExec()
	s.Require().NoError(st.SavePass(ctx, p))

	// once the hour has passed p0 is gone but the latest pass still resolves
	mock.ExpectGet("richgo:league:Standard:latest").SetVal("p1")
	mock.ExpectGet("richgo:pass:p1").SetVal(string(data))
	mock.ExpectGet("richgo:pass:p0").RedisNil()

	got, err := st.LatestPass(ctx, "Standard")
	s.Require().NoError(err)
	s.Equal("p1", got.ID)

	_, err = st.GetPass(ctx, "p0")
	s.True(crafterr.IsNotFound(err))
	s.NoError(mock.ExpectationsWereMet())
}

func (s *RedisStoreTestSuite) TestSavePassResavingLatestSkipsExpire() {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	st, err := store.NewRedis(&store.RedisConfig{Client: client, TTL: time.Hour, History: 5})
	s.Require().NoError(err)

	p := samplePass("p1", "Standard")
	data, err := json.Marshal(p)
	s.Require().NoError(err)

	mock.ExpectGet("richgo:league:Standard:latest").SetVal("p1")
	mock.ExpectTxPipeline()
	mock.ExpectSet("richgo:pass:p1", string(data), 0).SetVal("OK")
	mock.ExpectSet("richgo:league:Standard:latest", "p1", 0).SetVal("OK")
	mock.ExpectLPush("richgo:league:Standard:passes", "p1").SetVal(2)
	mock.ExpectLTrim("richgo:league:Standard:passes", 0, 4).SetVal("OK")
	mock.ExpectTxPipelineExec()

	s.Require().NoError(st.SavePass(ctx, p))
	s.NoError(mock.ExpectationsWereMet())
}

func (s *RedisStoreTestSuite) TestSavePassRedisError() {
	ctx := context.Background()
	p := samplePass("p1", "Standard")

	s.mock.ExpectGet("richgo:league:Standard:latest").SetErr(errors.New("redis down"))

	err := s.store.SavePass(ctx, p)
	s.Error(err)
	s.Contains(err.Error(), "redis down")
}

func (s *RedisStoreTestSuite) TestLatestPass() {
	ctx := context.Background()
	p := samplePass("p9", "")
	data, err := json.Marshal(p)
	s.Require().NoError(err)

	s.mock.ExpectGet("richgo:league:_:latest").SetVal("p9")
	s.mock.ExpectGet("richgo:pass:p9").SetVal(string(data))

	got, err := s.store.LatestPass(ctx, "")
	s.Require().NoError(err)
	s.Equal(p, got)
}

func (s *RedisStoreTestSuite) TestLatestPassMissing() {
	s.mock.ExpectGet("richgo:league:Standard:latest").RedisNil()

	_, err := s.store.LatestPass(context.Background(), "Standard")
	s.True(crafterr.IsNotFound(err))
}

func (s *RedisStoreTestSuite) TestTopOpportunities() {
	ctx := context.Background()
	p := samplePass("p1", "Standard")
	data, err := json.Marshal(p)
	s.Require().NoError(err)

	s.mock.ExpectGet("richgo:league:Standard:latest").SetVal("p1")
	s.mock.ExpectGet("richgo:pass:p1").SetVal(string(data))

	top, err := s.store.TopOpportunities(ctx, "Standard", 1)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal("a", top[0].RecipeID)
}

func (s *RedisStoreTestSuite) TestHistory() {
	s.mock.ExpectLRange("richgo:league:Standard:passes", 0, -1).SetVal([]string{"p2", "p1"})

	ids, err := s.store.History(context.Background(), "Standard")
	s.Require().NoError(err)
	s.Equal([]string{"p2", "p1"}, ids)
}

func (s *RedisStoreTestSuite) TestNewRedisRequiresClient() {
	_, err := store.NewRedis(nil)
	s.True(crafterr.Is(err, crafterr.CodeInvalidArgument))
}
