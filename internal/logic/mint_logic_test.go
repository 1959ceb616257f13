package logic

import (
	"github.com/blues/mintpad/internal/mint"
	"github.com/blues/mintpad/internal/model"
)

func (s *LogicTestSuite) mintReq(quantity int64, tx string) MintRequest {
	return MintRequest{WalletAddress: minterWallet, Quantity: quantity, TxId: tx}
}

func (s *LogicTestSuite) TestMintStatusNotLive() {
	c := s.createCollection(100, 0)
	s.createPhase(c.Id, s.draft("Public", -1, 24))

	status, err := s.mints.MintStatus(s.ctx, s.minter, c.Id)
	s.Require().NoError(err)
	s.False(status.CanMint)
	s.Equal("collection_not_live", status.Reason)
	s.Nil(status.Phase)

	_, err = s.mints.MintStatus(s.ctx, s.minter, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *LogicTestSuite) TestMintStatusPublicPhase() {
	c := s.createCollection(100, 40)
	d := s.draft("Public", -1, 24)
	d.MaxPerWallet = ptr(2)
	p := s.createPhase(c.Id, d)
	s.goLive(c.Id)

	status, err := s.mints.MintStatus(s.ctx, s.minter, c.Id)
	s.Require().NoError(err)
	s.True(status.CanMint)
	s.Empty(status.Reason)
	s.Equal(p.Id, status.Phase.Id)
	s.Equal(int64(40), status.Remaining)
	s.Require().NotNil(status.WalletRemaining)
	s.Equal(int64(2), *status.WalletRemaining)

	_, err = s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(2, "tx-1"))
	s.Require().NoError(err)

	status, err = s.mints.MintStatus(s.ctx, s.minter, c.Id)
	s.Require().NoError(err)
	s.False(status.CanMint)
	s.Equal("wallet_limit_reached", status.Reason)
	s.Equal(int64(2), status.WalletMinted)
	s.Equal(int64(38), status.Remaining)
}

func (s *LogicTestSuite) TestRecordMint() {
	c := s.createCollection(100, 0)
	d := s.draft("Public", -1, 24)
	d.MintPriceSats = 1000
	p := s.createPhase(c.Id, d)
	s.goLive(c.Id)

	_, err := s.mints.RecordMint(s.ctx, s.owner, c.Id, s.mintReq(1, "tx-1"))
	s.ErrorIs(err, ErrForbidden)

	record, err := s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(3, "tx-1"))
	s.Require().NoError(err)
	s.Equal(p.Id, record.PhaseId)
	s.Equal(int64(3000), record.PriceSats)

	stored, err := s.phases.GetPhase(s.ctx, p.Id)
	s.Require().NoError(err)
	s.Equal(int64(3), stored.PhaseMinted)
	s.Equal(int64(3), s.reload(c.Id).TotalMinted)

	// 同一笔交易不能重复记录
	_, err = s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(1, "tx-1"))
	s.Error(err)
	s.Equal(int64(3), s.reload(c.Id).TotalMinted)

	records, total, err := s.mints.ListMints(s.ctx, c.Id, minterWallet, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Len(records, 1)

	_, err = s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(0, "tx-2"))
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *LogicTestSuite) TestRecordMintWalletLimit() {
	c := s.createCollection(100, 0)
	d := s.draft("Public", -1, 24)
	d.MaxPerWallet = ptr(2)
	s.createPhase(c.Id, d)
	s.goLive(c.Id)

	_, err := s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(2, "tx-1"))
	s.Require().NoError(err)

	_, err = s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(1, "tx-2"))
	s.ErrorIs(err, mint.ErrWalletLimitReached)
	s.Equal(int64(2), s.reload(c.Id).TotalMinted)
}

func (s *LogicTestSuite) TestRecordMintRespectsAllocationAndCap() {
	c := s.createCollection(10, 5)
	d := s.draft("Public", -1, 24)
	d.PhaseAllocation = ptr(int64(3))
	p := s.createPhase(c.Id, d)
	s.goLive(c.Id)

	_, err := s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(4, "tx-1"))
	s.ErrorIs(err, mint.ErrPhaseSoldOut)

	_, err = s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(3, "tx-2"))
	s.Require().NoError(err)

	_, err = s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(1, "tx-3"))
	s.ErrorIs(err, mint.ErrPhaseSoldOut)

	// 放开阶段配额后受集合上限约束: cap 5 - 已铸 3 = 2
	s.Require().NoError(s.db.Model(&model.PhaseModel{}).Where("id = ?", p.Id).Update("phase_allocation", nil).Error)

	_, err = s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(3, "tx-4"))
	s.ErrorIs(err, mint.ErrPhaseSoldOut)

	_, err = s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(2, "tx-5"))
	s.Require().NoError(err)
	s.Equal(int64(5), s.reload(c.Id).TotalMinted)
}

func (s *LogicTestSuite) TestRecordMintWhitelistPhase() {
	c := s.createCollection(100, 0)
	wl := s.createWhitelist(c.Id, "OG")
	_, err := s.whitelists.AddEntries(s.ctx, s.owner, wl.Id, []string{minterWallet})
	s.Require().NoError(err)

	d := s.draft("Presale", -1, 24)
	d.WhitelistOnly = true
	d.WhitelistId = &wl.Id
	s.createPhase(c.Id, d)
	s.goLive(c.Id)

	_, err = s.mints.RecordMint(s.ctx, s.admin, c.Id, MintRequest{WalletAddress: strangerWallet, Quantity: 1, TxId: "tx-1"})
	s.ErrorIs(err, mint.ErrNotWhitelisted)

	status, err := s.mints.MintStatus(s.ctx, s.stranger, c.Id)
	s.Require().NoError(err)
	s.Equal("not_whitelisted", status.Reason)

	_, err = s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(1, "tx-2"))
	s.Require().NoError(err)
}

func (s *LogicTestSuite) TestReason() {
	s.Equal("sold_out", Reason(mint.ErrPhaseSoldOut))
	s.Equal("phase_completed", Reason(mint.ErrPhaseCompleted))
	s.Equal("no_active_phase", Reason(mint.ErrNoActivePhase))
	s.Empty(Reason(ErrNotFound))
	s.False(IsMintRejection(nil))
}
