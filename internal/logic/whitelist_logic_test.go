package logic

import (
	"strings"

	"github.com/blues/mintpad/internal/model"
)

func (s *LogicTestSuite) createWhitelist(collectionId, name string) *model.WhitelistModel {
	wl := &model.WhitelistModel{Name: name}
	s.Require().NoError(s.whitelists.CreateWhitelist(s.ctx, s.owner, collectionId, wl))
	return wl
}

func (s *LogicTestSuite) TestCreateWhitelist() {
	c := s.createCollection(100, 0)

	wl := s.createWhitelist(c.Id, "OG")
	s.NotEmpty(wl.Id)
	s.Equal(c.Id, wl.CollectionId)

	err := s.whitelists.CreateWhitelist(s.ctx, s.stranger, c.Id, &model.WhitelistModel{Name: "x"})
	s.ErrorIs(err, ErrForbidden)

	err = s.whitelists.CreateWhitelist(s.ctx, s.owner, c.Id, &model.WhitelistModel{Name: ""})
	s.ErrorIs(err, ErrInvalidInput)

	err = s.whitelists.CreateWhitelist(s.ctx, s.owner, "missing", &model.WhitelistModel{Name: "x"})
	s.ErrorIs(err, ErrNotFound)
}

func (s *LogicTestSuite) TestAddEntries() {
	c := s.createCollection(100, 0)
	wl := s.createWhitelist(c.Id, "OG")

	res, err := s.whitelists.AddEntries(s.ctx, s.owner, wl.Id, []string{
		minterWallet,
		strings.ToUpper(minterWallet),
		"not-an-address",
		"",
		ownerWallet,
	})
	s.Require().NoError(err)
	s.Equal(int64(2), res.Added)
	s.Equal(int64(1), res.Duplicate)
	s.Equal([]string{"not-an-address"}, res.Invalid)

	// 重复导入不会新增
	res, err = s.whitelists.AddEntries(s.ctx, s.owner, wl.Id, []string{minterWallet})
	s.Require().NoError(err)
	s.Equal(int64(0), res.Added)
	s.Equal(int64(1), res.Duplicate)

	count, err := s.whitelists.EntryCount(s.ctx, wl.Id)
	s.Require().NoError(err)
	s.Equal(int64(2), count)

	_, err = s.whitelists.AddEntries(s.ctx, s.stranger, wl.Id, []string{strangerWallet})
	s.ErrorIs(err, ErrForbidden)
}

func (s *LogicTestSuite) TestRemoveEntryInvalidatesCache() {
	c := s.createCollection(100, 0)
	wl := s.createWhitelist(c.Id, "OG")
	_, err := s.whitelists.AddEntries(s.ctx, s.owner, wl.Id, []string{minterWallet})
	s.Require().NoError(err)

	ok, err := s.cache.IsEligible(s.ctx, wl.Id, minterWallet)
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.whitelists.RemoveEntry(s.ctx, s.owner, wl.Id, minterWallet))

	ok, err = s.cache.IsEligible(s.ctx, wl.Id, minterWallet)
	s.Require().NoError(err)
	s.False(ok)

	err = s.whitelists.RemoveEntry(s.ctx, s.owner, wl.Id, minterWallet)
	s.ErrorIs(err, ErrNotFound)
}

func (s *LogicTestSuite) TestListWhitelistsAndEntries() {
	c := s.createCollection(100, 0)
	og := s.createWhitelist(c.Id, "OG")
	s.createWhitelist(c.Id, "Allowlist")
	_, err := s.whitelists.AddEntries(s.ctx, s.owner, og.Id, []string{minterWallet, ownerWallet, adminWallet})
	s.Require().NoError(err)

	summaries, err := s.whitelists.ListWhitelists(s.ctx, c.Id)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal("OG", summaries[0].Name)
	s.Equal(int64(3), summaries[0].EntryCount)
	s.Equal(int64(0), summaries[1].EntryCount)

	entries, total, err := s.whitelists.ListEntries(s.ctx, og.Id, "", 1, 2)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(entries, 2)

	entries, total, err = s.whitelists.ListEntries(s.ctx, og.Id, "minter", 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(minterWallet, entries[0].WalletAddress)
}

func (s *LogicTestSuite) TestDeleteWhitelistCascades() {
	c := s.createCollection(100, 0)
	wl := s.createWhitelist(c.Id, "OG")
	_, err := s.whitelists.AddEntries(s.ctx, s.owner, wl.Id, []string{minterWallet})
	s.Require().NoError(err)

	d := s.draft("Presale", 1, 24)
	d.WhitelistOnly = true
	d.WhitelistId = &wl.Id
	phase := s.createPhase(c.Id, d)

	ok, err := s.cache.IsEligible(s.ctx, wl.Id, minterWallet)
	s.Require().NoError(err)
	s.True(ok)

	s.ErrorIs(s.whitelists.DeleteWhitelist(s.ctx, s.stranger, wl.Id), ErrForbidden)
	s.Require().NoError(s.whitelists.DeleteWhitelist(s.ctx, s.owner, wl.Id))

	var entries int64
	s.Require().NoError(s.db.Model(&model.WhitelistEntryModel{}).Where("whitelist_id = ?", wl.Id).Count(&entries).Error)
	s.Zero(entries)

	stored, err := s.phases.GetPhase(s.ctx, phase.Id)
	s.Require().NoError(err)
	s.False(stored.WhitelistOnly)
	s.Nil(stored.WhitelistId)

	ok, err = s.cache.IsEligible(s.ctx, wl.Id, minterWallet)
	s.Require().NoError(err)
	s.False(ok)

	s.ErrorIs(s.whitelists.DeleteWhitelist(s.ctx, s.owner, wl.Id), ErrNotFound)
}
