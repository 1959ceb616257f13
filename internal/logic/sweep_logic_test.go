package logic

import (
	"time"

	"github.com/blues/mintpad/internal/model"
)

func (s *LogicTestSuite) TestSweepCompletesEndedPhases() {
	c := s.createCollection(100, 0)
	first := s.createPhase(c.Id, s.draft("Presale", -3, -2))
	second := s.createPhase(c.Id, s.draft("Public", -1, 24))
	s.goLive(c.Id)

	ids, err := s.sweeps.LiveCollectionIds(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{c.Id}, ids)

	res, err := s.sweeps.SweepCollection(s.ctx, c.Id, s.now)
	s.Require().NoError(err)
	s.Equal([]string{first.Id}, res.CompletedPhases)
	s.False(res.Completed)

	stored, err := s.phases.GetPhase(s.ctx, second.Id)
	s.Require().NoError(err)
	s.False(stored.IsCompleted)

	res, err = s.sweeps.SweepCollection(s.ctx, c.Id, s.now.Add(25*time.Hour))
	s.Require().NoError(err)
	s.Equal([]string{second.Id}, res.CompletedPhases)
	s.True(res.Completed)
	s.Equal(model.LaunchStatusCompleted, *s.reload(c.Id).LaunchStatus)

	ids, err = s.sweeps.LiveCollectionIds(s.ctx)
	s.Require().NoError(err)
	s.Empty(ids)

	status, err := s.mints.MintStatus(s.ctx, s.minter, c.Id)
	s.Require().NoError(err)
	s.Equal("no_active_phase", status.Reason)
}

func (s *LogicTestSuite) TestSweepKeepsExtendedLastPhase() {
	c := s.createCollection(100, 0)
	_, err := s.collections.UpdateCollection(s.ctx, s.owner, c.Id, CollectionPatch{ExtendLastPhase: ptr(true)})
	s.Require().NoError(err)
	first := s.createPhase(c.Id, s.draft("Presale", -3, -2))
	last := s.createPhase(c.Id, s.draft("Public", -1, 1))
	s.goLive(c.Id)

	res, err := s.sweeps.SweepCollection(s.ctx, c.Id, s.now.Add(5*time.Hour))
	s.Require().NoError(err)
	s.Equal([]string{first.Id}, res.CompletedPhases)
	s.False(res.Completed)

	stored, err := s.phases.GetPhase(s.ctx, last.Id)
	s.Require().NoError(err)
	s.False(stored.IsCompleted)

	s.now = s.now.Add(5 * time.Hour)
	status, err := s.mints.MintStatus(s.ctx, s.minter, c.Id)
	s.Require().NoError(err)
	s.True(status.CanMint)
	s.True(status.Extended)
}

func (s *LogicTestSuite) TestSweepActivatesUpcoming() {
	c := s.createCollection(100, 0)
	s.createPhase(c.Id, s.draft("Public", 2, 24))
	live := s.goLive(c.Id)
	s.Equal(model.LaunchStatusUpcoming, *live.LaunchStatus)

	res, err := s.sweeps.SweepCollection(s.ctx, c.Id, s.now)
	s.Require().NoError(err)
	s.False(res.Activated)

	res, err = s.sweeps.SweepCollection(s.ctx, c.Id, s.now.Add(3*time.Hour))
	s.Require().NoError(err)
	s.True(res.Activated)
	s.Equal(model.LaunchStatusActive, *s.reload(c.Id).LaunchStatus)
}

func (s *LogicTestSuite) TestSweepCompletesWhenSupplyExhausted() {
	c := s.createCollection(2, 0)
	s.createPhase(c.Id, s.draft("Public", -1, 24))
	s.goLive(c.Id)

	_, err := s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(2, "tx-1"))
	s.Require().NoError(err)

	res, err := s.sweeps.SweepCollection(s.ctx, c.Id, s.now)
	s.Require().NoError(err)
	s.True(res.Completed)
	s.Empty(res.CompletedPhases)
}

func (s *LogicTestSuite) TestSweepCompletesExhaustedPhase() {
	c := s.createCollection(100, 0)
	d := s.draft("Public", -1, 24)
	d.PhaseAllocation = ptr(int64(1))
	p := s.createPhase(c.Id, d)
	s.createPhase(c.Id, s.draft("Later", 48, 72))
	s.goLive(c.Id)

	_, err := s.mints.RecordMint(s.ctx, s.admin, c.Id, s.mintReq(1, "tx-1"))
	s.Require().NoError(err)

	res, err := s.sweeps.SweepCollection(s.ctx, c.Id, s.now)
	s.Require().NoError(err)
	s.Equal([]string{p.Id}, res.CompletedPhases)
	s.False(res.Completed)
}

func (s *LogicTestSuite) TestSweepIgnoresCollectionsThatAreNotLive() {
	c := s.createCollection(100, 0)
	s.createPhase(c.Id, s.draft("Public", -3, -2))

	res, err := s.sweeps.SweepCollection(s.ctx, c.Id, s.now)
	s.Require().NoError(err)
	s.Empty(res.CompletedPhases)
	s.False(res.Completed)
}
