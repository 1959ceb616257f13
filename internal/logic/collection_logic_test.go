package logic

import (
	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/internal/mint"
	"github.com/blues/mintpad/internal/model"
)

func (s *LogicTestSuite) TestCreateCollection() {
	c := s.createCollection(1000, 0)

	s.NotEmpty(c.Id)
	s.Equal(ownerWallet, c.OwnerWallet)
	s.Equal(model.CollectionStatusDraft, c.CollectionStatus)
	s.Nil(c.LaunchStatus)
	s.Equal(int64(1000), c.CapSupply, "unset cap defaults to total supply")

	stored := s.reload(c.Id)
	s.Equal("Ordinal Cats", stored.Name)
}

func (s *LogicTestSuite) TestCreateCollectionRejectsInvalidInput() {
	err := s.collections.CreateCollection(s.ctx, auth.Context{}, &model.CollectionModel{Name: "x", TotalSupply: 1})
	s.ErrorIs(err, ErrForbidden)

	err = s.collections.CreateCollection(s.ctx, s.owner, &model.CollectionModel{Name: "  ", TotalSupply: 1})
	s.ErrorIs(err, ErrInvalidInput)

	err = s.collections.CreateCollection(s.ctx, s.owner, &model.CollectionModel{Name: "x", TotalSupply: 0})
	s.ErrorIs(err, ErrInvalidInput)

	err = s.collections.CreateCollection(s.ctx, s.owner, &model.CollectionModel{Name: "x", TotalSupply: 10, CapSupply: 11})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *LogicTestSuite) TestGetCollectionNotFound() {
	_, err := s.collections.GetCollection(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *LogicTestSuite) TestListCollections() {
	for _, name := range []string{"Ordinal Cats", "Bitcoin Punks", "Cat Wizards"} {
		s.Require().NoError(s.collections.CreateCollection(s.ctx, s.owner, &model.CollectionModel{Name: name, TotalSupply: 10}))
	}
	s.Require().NoError(s.collections.CreateCollection(s.ctx, s.stranger, &model.CollectionModel{Name: "Rare Sats", TotalSupply: 10}))

	all, total, err := s.collections.ListCollections(s.ctx, CollectionQuery{})
	s.Require().NoError(err)
	s.Equal(int64(4), total)
	s.Len(all, 4)

	mine, total, err := s.collections.ListCollections(s.ctx, CollectionQuery{Owner: ownerWallet})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(mine, 3)

	cats, total, err := s.collections.ListCollections(s.ctx, CollectionQuery{Query: "cat"})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	names := []string{cats[0].Name, cats[1].Name}
	s.ElementsMatch([]string{"Ordinal Cats", "Cat Wizards"}, names)

	page, total, err := s.collections.ListCollections(s.ctx, CollectionQuery{Query: "cat", Page: 2, PageSize: 1})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(page, 1)

	empty, _, err := s.collections.ListCollections(s.ctx, CollectionQuery{Query: "cat", Page: 5, PageSize: 10})
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *LogicTestSuite) TestUpdateCollection() {
	c := s.createCollection(100, 50)

	_, err := s.collections.UpdateCollection(s.ctx, s.stranger, c.Id, CollectionPatch{Name: ptr("stolen")})
	s.ErrorIs(err, ErrForbidden)

	updated, err := s.collections.UpdateCollection(s.ctx, s.owner, c.Id, CollectionPatch{
		Name:            ptr("Renamed"),
		ExtendLastPhase: ptr(true),
		TwitterURL:      ptr(" https://x.com/cats "),
	})
	s.Require().NoError(err)
	s.Equal("Renamed", updated.Name)
	s.True(updated.ExtendLastPhase)
	s.Equal("https://x.com/cats", updated.TwitterURL)
	s.Equal(int64(50), updated.CapSupply)

	// 管理员可以修改任意集合
	updated, err = s.collections.UpdateCollection(s.ctx, s.admin, c.Id, CollectionPatch{TotalSupply: ptr(int64(40))})
	s.Require().NoError(err)
	s.Equal(int64(40), updated.TotalSupply)
	s.Equal(int64(40), updated.CapSupply, "cap is clamped when total shrinks below it")

	_, err = s.collections.UpdateCollection(s.ctx, s.owner, c.Id, CollectionPatch{CapSupply: ptr(int64(41))})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.collections.UpdateCollection(s.ctx, s.owner, c.Id, CollectionPatch{Name: ptr(" ")})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.collections.UpdateCollection(s.ctx, s.owner, c.Id, CollectionPatch{})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *LogicTestSuite) TestDisableExtendLastPhaseWithOpenEndedPhase() {
	c := s.createCollection(100, 0)
	_, err := s.collections.UpdateCollection(s.ctx, s.owner, c.Id, CollectionPatch{ExtendLastPhase: ptr(true)})
	s.Require().NoError(err)

	s.createPhase(c.Id, s.draft("Whitelist", 1, 2))
	open := s.draft("Public", 3, 0)
	open.EndTime = ""
	s.createPhase(c.Id, open)

	_, err = s.collections.UpdateCollection(s.ctx, s.owner, c.Id, CollectionPatch{ExtendLastPhase: ptr(false)})
	s.True(validationErrors(err).Has(mint.EndTimeRequired))
	s.True(s.reload(c.Id).ExtendLastPhase)

	// 所有阶段都有结束时间时可以关闭
	closed := s.createCollection(100, 0)
	_, err = s.collections.UpdateCollection(s.ctx, s.owner, closed.Id, CollectionPatch{ExtendLastPhase: ptr(true)})
	s.Require().NoError(err)
	s.createPhase(closed.Id, s.draft("Public", 1, 2))

	updated, err := s.collections.UpdateCollection(s.ctx, s.owner, closed.Id, CollectionPatch{ExtendLastPhase: ptr(false)})
	s.Require().NoError(err)
	s.False(updated.ExtendLastPhase)
}
