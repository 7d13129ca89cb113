package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"confgate/internal/settings/models"
	"confgate/internal/settings/notify"
	"confgate/pkg/domain"
	dErrors "confgate/pkg/domain-errors"
)

type NotifierSuite struct {
	suite.Suite

	notifier *notify.Notifier
}

func TestNotifierSuite(t *testing.T) {
	suite.Run(t, new(NotifierSuite))
}

func (s *NotifierSuite) SetupTest() {
	s.notifier = notify.New()
}

func (s *NotifierSuite) snapshot(folder, idle string) *models.Snapshot {
	s.T().Helper()
	d, err := models.ParseDuration(idle)
	s.Require().NoError(err)
	snap, err := models.New(folder, d)
	s.Require().NoError(err)
	return snap
}

func (s *NotifierSuite) TestRegistrationRejectsNilListener() {
	_, err := s.notifier.OnFolderChange(nil)
	s.Require().Error(err)
	s.Equal(dErrors.CodeInvalidInput, dErrors.CodeOf(err))

	_, err = s.notifier.OnIdleChange(nil)
	s.Require().Error(err)
	s.Equal(dErrors.CodeInvalidInput, dErrors.CodeOf(err))
}

func (s *NotifierSuite) TestIdleOnlyChangeFiresIdleListenerExactlyOnce() {
	var folderCalls int
	_, err := s.notifier.OnFolderChange(func(ctx context.Context, old, new string) error {
		folderCalls++
		return nil
	})
	s.Require().NoError(err)

	var idleCalls int
	var gotOld, gotNew models.Duration
	_, err = s.notifier.OnIdleChange(func(ctx context.Context, old, new models.Duration) error {
		idleCalls++
		gotOld, gotNew = old, new
		return nil
	})
	s.Require().NoError(err)

	before := s.snapshot("/var/resources", "00:10:00")
	after := s.snapshot("/var/resources", "01:30:00")
	s.Require().NoError(s.notifier.NotifyIfChanged(context.Background(), before, after))

	s.Zero(folderCalls, "an idle-only change must not reach folder listeners")
	s.Equal(1, idleCalls)
	s.Equal(before.Idle(), gotOld)
	s.Equal(after.Idle(), gotNew)
}

func (s *NotifierSuite) TestFolderChangeFiresFolderListener() {
	var gotOld, gotNew string
	_, err := s.notifier.OnFolderChange(func(ctx context.Context, old, new string) error {
		gotOld, gotNew = old, new
		return nil
	})
	s.Require().NoError(err)

	var idleCalls int
	_, err = s.notifier.OnIdleChange(func(ctx context.Context, old, new models.Duration) error {
		idleCalls++
		return nil
	})
	s.Require().NoError(err)

	before := s.snapshot("/var/resources", "00:10:00")
	after := s.snapshot("/srv/alternate", "00:10:00")
	s.Require().NoError(s.notifier.NotifyIfChanged(context.Background(), before, after))

	s.Equal("/var/resources", gotOld)
	s.Equal("/srv/alternate", gotNew)
	s.Zero(idleCalls, "a folder-only change must not reach idle listeners")
}

func (s *NotifierSuite) TestCaseOnlyFolderChangeIsNotAChange() {
	var folderCalls int
	_, err := s.notifier.OnFolderChange(func(ctx context.Context, old, new string) error {
		folderCalls++
		return nil
	})
	s.Require().NoError(err)

	before := s.snapshot("/var/resources", "00:10:00")
	after := s.snapshot("/VAR/Resources", "00:10:00")
	s.Require().NoError(s.notifier.NotifyIfChanged(context.Background(), before, after))
	s.Zero(folderCalls)
}

func (s *NotifierSuite) TestNoChangeDispatchesNothing() {
	var calls int
	_, err := s.notifier.OnFolderChange(func(ctx context.Context, old, new string) error {
		calls++
		return nil
	})
	s.Require().NoError(err)
	_, err = s.notifier.OnIdleChange(func(ctx context.Context, old, new models.Duration) error {
		calls++
		return nil
	})
	s.Require().NoError(err)

	snap := s.snapshot("/var/resources", "00:10:00")
	same := s.snapshot("/var/resources", "00:10:00")
	s.Require().NoError(s.notifier.NotifyIfChanged(context.Background(), snap, same))
	s.Zero(calls)
}

func (s *NotifierSuite) TestListenersRunInRegistrationOrder() {
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		_, err := s.notifier.OnFolderChange(func(ctx context.Context, old, new string) error {
			order = append(order, name)
			return nil
		})
		s.Require().NoError(err)
	}

	before := s.snapshot("/var/resources", "00:10:00")
	after := s.snapshot("/srv/alternate", "00:10:00")
	s.Require().NoError(s.notifier.NotifyIfChanged(context.Background(), before, after))
	s.Equal([]string{"first", "second", "third"}, order)
}

func (s *NotifierSuite) TestFailingListenerIsIsolated() {
	_, err := s.notifier.OnFolderChange(func(ctx context.Context, old, new string) error {
		return errors.New("certificate rebinding failed")
	})
	s.Require().NoError(err)

	var secondRan bool
	_, err = s.notifier.OnFolderChange(func(ctx context.Context, old, new string) error {
		secondRan = true
		return nil
	})
	s.Require().NoError(err)

	before := s.snapshot("/var/resources", "00:10:00")
	after := s.snapshot("/srv/alternate", "00:10:00")
	err = s.notifier.NotifyIfChanged(context.Background(), before, after)

	s.Require().Error(err)
	s.Contains(err.Error(), "certificate rebinding failed")
	s.True(secondRan, "a failing listener must not stop the round")
}

func (s *NotifierSuite) TestAllFailuresAreJoined() {
	_, err := s.notifier.OnFolderChange(func(ctx context.Context, old, new string) error {
		return errors.New("first failure")
	})
	s.Require().NoError(err)
	_, err = s.notifier.OnIdleChange(func(ctx context.Context, old, new models.Duration) error {
		return errors.New("second failure")
	})
	s.Require().NoError(err)

	before := s.snapshot("/var/resources", "00:10:00")
	after := s.snapshot("/srv/alternate", "01:30:00")
	err = s.notifier.NotifyIfChanged(context.Background(), before, after)

	s.Require().Error(err)
	s.Contains(err.Error(), "first failure")
	s.Contains(err.Error(), "second failure")
}

func (s *NotifierSuite) TestPanickingListenerBecomesError() {
	_, err := s.notifier.OnFolderChange(func(ctx context.Context, old, new string) error {
		panic("listener bug")
	})
	s.Require().NoError(err)

	var secondRan bool
	_, err = s.notifier.OnFolderChange(func(ctx context.Context, old, new string) error {
		secondRan = true
		return nil
	})
	s.Require().NoError(err)

	before := s.snapshot("/var/resources", "00:10:00")
	after := s.snapshot("/srv/alternate", "00:10:00")
	err = s.notifier.NotifyIfChanged(context.Background(), before, after)

	s.Require().Error(err)
	s.Contains(err.Error(), "panicked")
	s.Contains(err.Error(), "listener bug")
	s.True(secondRan)
}

func (s *NotifierSuite) TestRemove() {
	var calls int
	id, err := s.notifier.OnFolderChange(func(ctx context.Context, old, new string) error {
		calls++
		return nil
	})
	s.Require().NoError(err)

	s.True(s.notifier.Remove(id))
	s.False(s.notifier.Remove(id), "a handle is spent once removed")
	s.False(s.notifier.Remove(domain.NewListenerID()))

	before := s.snapshot("/var/resources", "00:10:00")
	after := s.snapshot("/srv/alternate", "00:10:00")
	s.Require().NoError(s.notifier.NotifyIfChanged(context.Background(), before, after))
	s.Zero(calls)
}

func (s *NotifierSuite) TestListenerMayRegisterDuringDispatch() {
	var lateCalls int
	_, err := s.notifier.OnFolderChange(func(ctx context.Context, old, new string) error {
		_, regErr := s.notifier.OnFolderChange(func(ctx context.Context, old, new string) error {
			lateCalls++
			return nil
		})
		return regErr
	})
	s.Require().NoError(err)

	before := s.snapshot("/var/resources", "00:10:00")
	after := s.snapshot("/srv/alternate", "00:10:00")
	s.Require().NoError(s.notifier.NotifyIfChanged(context.Background(), before, after))
	s.Zero(lateCalls, "a listener added mid-round joins the next round only")

	s.Require().NoError(s.notifier.NotifyIfChanged(context.Background(), after, before))
	s.Equal(1, lateCalls)
}

func (s *NotifierSuite) TestNilSnapshotsRejected() {
	snap := s.snapshot("/var/resources", "00:10:00")

	err := s.notifier.NotifyIfChanged(context.Background(), nil, snap)
	s.Require().Error(err)
	s.Equal(dErrors.CodeInvariantViolation, dErrors.CodeOf(err))

	err = s.notifier.NotifyIfChanged(context.Background(), snap, nil)
	s.Require().Error(err)
	s.Equal(dErrors.CodeInvariantViolation, dErrors.CodeOf(err))
}
