package logic

import (
	"errors"
	"time"

	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/internal/launch"
	"github.com/blues/mintpad/internal/model"
)

func guardReason(err error) launch.GuardReason {
	var ge *launch.GuardError
	if errors.As(err, &ge) {
		return ge.Reason
	}
	return ""
}

func (s *LogicTestSuite) TestLaunchFlow() {
	c := s.createCollection(100, 0)
	s.createPhase(c.Id, s.draft("Public", -1, 24))

	staged, err := s.launches.Transition(s.ctx, s.owner, c.Id, launch.StateLaunchpad)
	s.Require().NoError(err)
	s.Equal(model.CollectionStatusLaunchpad, staged.CollectionStatus)
	s.Nil(staged.LaunchStatus)

	live, err := s.launches.Transition(s.ctx, s.owner, c.Id, launch.StateLaunchpadLive)
	s.Require().NoError(err)
	s.Equal(model.CollectionStatusLaunchpadLive, live.CollectionStatus)
	s.Require().NotNil(live.LaunchStatus)
	s.Equal(model.LaunchStatusActive, *live.LaunchStatus)
	s.Require().NotNil(live.LaunchedAt)
	s.True(live.LaunchedAt.Equal(s.now))

	stored := s.reload(c.Id)
	s.Equal(model.CollectionStatusLaunchpadLive, stored.CollectionStatus)
	s.Equal(model.LaunchStatusActive, *stored.LaunchStatus)

	history, err := s.launches.History(s.ctx, c.Id)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal("launchpad", history[0].FromStatus)
	s.Equal("launchpad_live", history[0].ToStatus)
	s.Equal(ownerWallet, history[0].Actor)
}

func (s *LogicTestSuite) TestLaunchUpcoming() {
	c := s.createCollection(100, 0)
	s.createPhase(c.Id, s.draft("Public", 2, 24))

	live := s.goLive(c.Id)
	s.Equal(model.LaunchStatusUpcoming, *live.LaunchStatus)
}

func (s *LogicTestSuite) TestLaunchGuards() {
	c := s.createCollection(100, 0)
	_, err := s.launches.Transition(s.ctx, s.owner, c.Id, launch.StateLaunchpad)
	s.Require().NoError(err)

	_, err = s.launches.Transition(s.ctx, s.owner, c.Id, launch.StateLaunchpadLive)
	s.Equal(launch.ReasonNoPhases, guardReason(err))

	_, err = s.collections.UpdateCollection(s.ctx, s.owner, c.Id, CollectionPatch{BannerImageURL: ptr("")})
	s.Require().NoError(err)
	_, err = s.launches.Transition(s.ctx, s.owner, c.Id, launch.StateLaunchpadLive)
	s.Equal(launch.ReasonMissingBanner, guardReason(err))

	stored := s.reload(c.Id)
	s.Equal(model.CollectionStatusLaunchpad, stored.CollectionStatus, "rejected transition leaves state untouched")

	_, err = s.launches.Transition(s.ctx, s.stranger, c.Id, launch.StateDraft)
	s.Equal(launch.ReasonForbidden, guardReason(err))

	_, err = s.launches.Transition(s.ctx, s.owner, c.Id, launch.StateCompleted)
	s.Equal(launch.ReasonInvalidTransition, guardReason(err))

	_, err = s.launches.Transition(s.ctx, s.owner, "missing", launch.StateLaunchpad)
	s.ErrorIs(err, ErrNotFound)

	history, err := s.launches.History(s.ctx, c.Id)
	s.Require().NoError(err)
	s.Len(history, 1, "only the successful transition is recorded")
}

func (s *LogicTestSuite) TestEndLiveAndRelaunch() {
	c := s.createCollection(100, 0)
	s.createPhase(c.Id, s.draft("Public", -1, 24))
	live := s.goLive(c.Id)
	launchedAt := *live.LaunchedAt

	ended, err := s.launches.Transition(s.ctx, s.owner, c.Id, launch.StateLaunchpad)
	s.Require().NoError(err)
	s.Equal(model.CollectionStatusLaunchpad, ended.CollectionStatus)
	s.Equal(model.LaunchStatusActive, *ended.LaunchStatus)

	_, err = s.launches.Transition(s.ctx, s.owner, c.Id, launch.StateDraft)
	s.Equal(launch.ReasonAlreadyLaunched, guardReason(err))

	s.now = s.now.Add(time.Hour)
	relaunched, err := s.launches.Transition(s.ctx, s.admin, c.Id, launch.StateLaunchpadLive)
	s.Require().NoError(err)
	s.True(relaunched.LaunchedAt.Equal(launchedAt), "launched_at is kept on relaunch")
}

func (s *LogicTestSuite) TestRevertToDraftBeforeLaunch() {
	c := s.createCollection(100, 0)
	_, err := s.launches.Transition(s.ctx, s.owner, c.Id, launch.StateLaunchpad)
	s.Require().NoError(err)

	reverted, err := s.launches.Transition(s.ctx, s.owner, c.Id, launch.StateDraft)
	s.Require().NoError(err)
	s.Equal(model.CollectionStatusDraft, reverted.CollectionStatus)
	s.Nil(reverted.LaunchStatus)
}

func (s *LogicTestSuite) TestSystemCompletesCollection() {
	c := s.createCollection(100, 0)
	s.createPhase(c.Id, s.draft("Public", -1, 24))
	s.goLive(c.Id)

	done, err := s.launches.Transition(s.ctx, auth.System(), c.Id, launch.StateCompleted)
	s.Require().NoError(err)
	s.Equal(model.LaunchStatusCompleted, *done.LaunchStatus)
	s.Equal(model.CollectionStatusLaunchpadLive, done.CollectionStatus)

	history, err := s.launches.History(s.ctx, c.Id)
	s.Require().NoError(err)
	s.Equal(auth.SystemActor, history[0].Actor)

	hidden, err := s.launches.Transition(s.ctx, s.owner, c.Id, launch.StateLaunchpad)
	s.Require().NoError(err)
	s.Equal(model.CollectionStatusLaunchpad, hidden.CollectionStatus)
	s.Equal(model.LaunchStatusCompleted, *hidden.LaunchStatus)
}
