package logic

import (
	"errors"
	"time"

	"github.com/blues/mintpad/internal/mint"
)

func validationErrors(err error) mint.ValidationErrors {
	var errs mint.ValidationErrors
	if errors.As(err, &errs) {
		return errs
	}
	return nil
}

func (s *LogicTestSuite) TestCreatePhase() {
	c := s.createCollection(100, 0)

	d := s.draft("Public", 1, 24)
	d.MintPriceSats = 10000
	d.MaxPerWallet = ptr(3)
	res, err := s.phases.CreatePhase(s.ctx, s.owner, c.Id, d)
	s.Require().NoError(err)
	s.Empty(res.Warnings)

	p := res.Phase
	s.NotEmpty(p.Id)
	s.Equal("Public", p.PhaseName)
	s.True(p.StartTime.Equal(s.now.Add(time.Hour)))
	s.True(p.EndTime.Equal(s.now.Add(24 * time.Hour)))
	s.Equal(int64(10000), p.MintPriceSats)
	s.Equal(3, *p.MaxPerWallet)

	_, err = s.phases.CreatePhase(s.ctx, s.stranger, c.Id, d)
	s.ErrorIs(err, ErrForbidden)
}

func (s *LogicTestSuite) TestCreatePhaseConvertsLocalTime() {
	c := s.createCollection(100, 0)

	res, err := s.phases.CreatePhase(s.ctx, s.owner, c.Id, mint.PhaseDraft{
		PhaseName: "Asia",
		StartTime: "2025-03-01T20:00",
		EndTime:   "2025-03-02T20:00",
		Timezone:  "Asia/Shanghai",
	})
	s.Require().NoError(err)
	s.True(res.Phase.StartTime.Equal(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)))

	_, err = s.phases.CreatePhase(s.ctx, s.owner, c.Id, mint.PhaseDraft{
		PhaseName: "Nowhere",
		StartTime: "2025-03-01T20:00",
		EndTime:   "2025-03-02T20:00",
		Timezone:  "Mars/Olympus",
	})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *LogicTestSuite) TestCreatePhaseCollectsAllErrors() {
	c := s.createCollection(100, 0)

	d := s.draft("", 1, 24*11)
	d.MintPriceSats = 100
	d.MaxPerWallet = ptr(20)
	_, err := s.phases.CreatePhase(s.ctx, s.owner, c.Id, d)

	errs := validationErrors(err)
	s.Require().NotNil(errs, "expected validation errors, got %v", err)
	s.True(errs.Has(mint.NameRequired))
	s.True(errs.Has(mint.WindowTooLong))
	s.True(errs.Has(mint.PriceBelowDustLimit))
	s.True(errs.Has(mint.MaxPerWalletOutOfRange))

	phases, err := s.phases.ListPhases(s.ctx, c.Id)
	s.Require().NoError(err)
	s.Empty(phases, "invalid phase must not be stored")
}

func (s *LogicTestSuite) TestCreatePhaseRejectsForeignWhitelist() {
	mine := s.createCollection(100, 0)
	other := s.createCollection(100, 0)
	foreign := s.createWhitelist(other.Id, "Other")

	d := s.draft("Presale", 1, 24)
	d.WhitelistOnly = true
	d.WhitelistId = &foreign.Id
	_, err := s.phases.CreatePhase(s.ctx, s.owner, mine.Id, d)
	s.True(validationErrors(err).Has(mint.WhitelistNotFound))
}

func (s *LogicTestSuite) TestCreatePhaseWarnings() {
	c := s.createCollection(100, 0)
	wl := s.createWhitelist(c.Id, "OG")

	d := s.draft("Presale", 1, 24)
	d.WhitelistOnly = true
	res, err := s.phases.CreatePhase(s.ctx, s.owner, c.Id, d)
	s.Require().NoError(err)
	s.Equal([]mint.WarningKind{mint.WhitelistUnassigned}, res.Warnings)

	d.WhitelistId = &wl.Id
	res, err = s.phases.UpdatePhase(s.ctx, s.owner, res.Phase.Id, d)
	s.Require().NoError(err)
	s.Equal([]mint.WarningKind{mint.WhitelistEmpty}, res.Warnings)

	_, err = s.whitelists.AddEntries(s.ctx, s.owner, wl.Id, []string{minterWallet})
	s.Require().NoError(err)
	res, err = s.phases.UpdatePhase(s.ctx, s.owner, res.Phase.Id, d)
	s.Require().NoError(err)
	s.Empty(res.Warnings)
}

func (s *LogicTestSuite) TestOpenEndedPhaseRules() {
	c := s.createCollection(100, 0)

	open := s.draft("Public", 1, 0)
	open.EndTime = ""
	_, err := s.phases.CreatePhase(s.ctx, s.owner, c.Id, open)
	s.True(validationErrors(err).Has(mint.EndTimeRequired))

	_, err = s.collections.UpdateCollection(s.ctx, s.owner, c.Id, CollectionPatch{ExtendLastPhase: ptr(true)})
	s.Require().NoError(err)
	s.createPhase(c.Id, open)

	// 新阶段排在开放阶段之后，开放阶段不再是最后一个
	_, err = s.phases.CreatePhase(s.ctx, s.owner, c.Id, s.draft("Later", 48, 72))
	s.True(validationErrors(err).Has(mint.OpenEndedPhaseNotLast))

	s.createPhase(c.Id, s.draft("Earlier", -48, -24))

	bad := s.draft("Broken", 2, 0)
	bad.EndTime = "someday"
	_, err = s.phases.CreatePhase(s.ctx, s.owner, c.Id, bad)
	errs := validationErrors(err)
	s.True(errs.Has(mint.EndTimeInvalid))
	s.False(errs.Has(mint.EndTimeRequired))
}

func (s *LogicTestSuite) TestUpdatePhaseKeepsCounters() {
	c := s.createCollection(100, 0)
	p := s.createPhase(c.Id, s.draft("Public", -1, 24))
	s.Require().NoError(s.db.Model(p).Update("phase_minted", 5).Error)

	d := s.draft("Public v2", -1, 48)
	d.PhaseAllocation = ptr(int64(4))
	_, err := s.phases.UpdatePhase(s.ctx, s.owner, p.Id, d)
	s.ErrorIs(err, ErrInvalidInput)

	d.PhaseAllocation = ptr(int64(50))
	res, err := s.phases.UpdatePhase(s.ctx, s.owner, p.Id, d)
	s.Require().NoError(err)
	s.Equal("Public v2", res.Phase.PhaseName)

	stored, err := s.phases.GetPhase(s.ctx, p.Id)
	s.Require().NoError(err)
	s.Equal("Public v2", stored.PhaseName)
	s.Equal(int64(5), stored.PhaseMinted)
	s.Equal(int64(50), *stored.PhaseAllocation)
	s.True(stored.EndTime.Equal(s.now.Add(48 * time.Hour)))
}

func (s *LogicTestSuite) TestPauseResumeComplete() {
	c := s.createCollection(100, 0)
	p := s.createPhase(c.Id, s.draft("Public", -1, 24))

	_, err := s.phases.SetPaused(s.ctx, s.stranger, p.Id, true)
	s.ErrorIs(err, ErrForbidden)

	paused, err := s.phases.SetPaused(s.ctx, s.admin, p.Id, true)
	s.Require().NoError(err)
	s.True(paused.IsPaused())

	stored, err := s.phases.GetPhase(s.ctx, p.Id)
	s.Require().NoError(err)
	s.True(stored.IsPaused())

	resumed, err := s.phases.SetPaused(s.ctx, s.owner, p.Id, false)
	s.Require().NoError(err)
	s.Nil(resumed.IsActive)

	done, err := s.phases.CompletePhase(s.ctx, s.owner, p.Id)
	s.Require().NoError(err)
	s.True(done.IsCompleted)
}

func (s *LogicTestSuite) TestDeletePhase() {
	c := s.createCollection(100, 0)
	p := s.createPhase(c.Id, s.draft("Public", -1, 24))
	minted := s.createPhase(c.Id, s.draft("Second", 24, 48))
	s.Require().NoError(s.db.Model(minted).Update("phase_minted", 1).Error)

	s.ErrorIs(s.phases.DeletePhase(s.ctx, s.stranger, p.Id), ErrForbidden)
	s.ErrorIs(s.phases.DeletePhase(s.ctx, s.owner, minted.Id), ErrPhaseHasMints)
	s.Require().NoError(s.phases.DeletePhase(s.ctx, s.owner, p.Id))

	_, err := s.phases.GetPhase(s.ctx, p.Id)
	s.ErrorIs(err, ErrNotFound)

	phases, err := s.phases.ListPhases(s.ctx, c.Id)
	s.Require().NoError(err)
	s.Len(phases, 1)
}
