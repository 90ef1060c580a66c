package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/content-distributor/internal/config"
	"github.com/content-distributor/internal/events"
	"github.com/content-distributor/internal/mocks"
	"github.com/content-distributor/internal/models"
	"github.com/content-distributor/internal/repository"
	"github.com/content-distributor/internal/service"
	servicemocks "github.com/content-distributor/internal/service/mocks"
	"github.com/content-distributor/internal/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const articleURL = "https://example.com/article"

type SubmissionServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	distributor *servicemocks.MockDistributor
	summarizer  *servicemocks.MockSummarizer
	publisher   *servicemocks.MockEventPublisher

	history  *mocks.MockHistoryRepository
	settings *mocks.MockSettingsRepository
	repos    *repository.Repositories
	broker   *events.Broker
	cfg      *config.Config
}

func (s *SubmissionServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.distributor = servicemocks.NewMockDistributor(s.ctrl)
	s.summarizer = servicemocks.NewMockSummarizer(s.ctrl)
	s.publisher = servicemocks.NewMockEventPublisher(s.ctrl)

	s.repos, s.history, s.settings = mocks.NewMockRepositories()
	s.broker = events.NewBroker(zerolog.Nop())
	s.cfg = config.Default()
}

func (s *SubmissionServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSubmissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubmissionServiceTestSuite))
}

// services builds the flow without enrichment or publishing
func (s *SubmissionServiceTestSuite) services() *service.Services {
	return service.NewServices(service.Deps{
		Repos:       s.repos,
		Distributor: s.distributor,
		Broker:      s.broker,
	}, s.cfg, zerolog.Nop())
}

func (s *SubmissionServiceTestSuite) enrichedServices() *service.Services {
	s.cfg.Summarizer.Enabled = true
	return service.NewServices(service.Deps{
		Repos:       s.repos,
		Distributor: s.distributor,
		Summarizer:  s.summarizer,
		Broker:      s.broker,
	}, s.cfg, zerolog.Nop())
}

func (s *SubmissionServiceTestSuite) TestSubmit_Success() {
	ctx := context.Background()
	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(nil).Times(1)

	before := time.Now().UTC()
	result, err := s.services().Submission.Submit(ctx, &models.SubmitRequest{ArticleURL: articleURL})
	s.Require().NoError(err)

	s.Equal(models.StatusSuccess, result.Submission.Status)
	s.Empty(result.Submission.FailedStep)
	s.Equal(articleURL, result.Submission.ArticleURL)
	s.Equal(models.SourceWebApp, result.Submission.Source)
	s.NotEmpty(result.Submission.ID)
	s.False(result.Submission.Timestamp.Before(before))

	s.Equal("Success!", result.Toast.Title)
	s.Equal("Your URL has been submitted for processing.", result.Toast.Description)
	s.Equal(models.ToastDefault, result.Toast.Variant)
	s.True(result.ClearInput)

	s.Require().Len(s.history.Items, 1)
	s.Equal(result.Submission.ID, s.history.Items[0].ID)
}

func (s *SubmissionServiceTestSuite) TestSubmit_TrimsInput() {
	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(nil)

	result, err := s.services().Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: "  " + articleURL + "\n"})
	s.Require().NoError(err)
	s.Equal(articleURL, result.Submission.ArticleURL)
}

func (s *SubmissionServiceTestSuite) TestSubmit_InvalidURLMakesNoCall() {
	for _, input := range []string{"not-a-url", "", "   ", "example.com/path", "ftp://example.com"} {
		s.Run(fmt.Sprintf("input %q", input), func() {
			result, err := s.services().Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: input})

			s.Nil(result)
			vErr, ok := validation.AsValidationError(err)
			s.Require().True(ok, "expected validation error, got %v", err)
			s.Equal(validation.FieldArticleURL, vErr.Field)
			s.Empty(s.history.Items)
		})
	}
}

func (s *SubmissionServiceTestSuite) TestSubmit_DistributionFailure() {
	s.distributor.EXPECT().
		Distribute(gomock.Any(), articleURL).
		Return(errors.New("webhook: unexpected status 500 Internal Server Error"))

	result, err := s.services().Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: articleURL})
	s.Require().NoError(err)

	s.Equal(models.StatusError, result.Submission.Status)
	s.Equal(models.StepDistribute, result.Submission.FailedStep)
	s.Equal("Error", result.Toast.Title)
	s.Equal("Failed to submit URL. Please try again.", result.Toast.Description)
	s.Equal(models.ToastDestructive, result.Toast.Variant)
	s.False(result.ClearInput)

	s.Require().Len(s.history.Items, 1)
	s.Equal(models.StatusError, s.history.Items[0].Status)
}

func (s *SubmissionServiceTestSuite) TestSubmit_EvictsOldestAtCap() {
	for i := 0; i < models.DefaultHistoryLimit; i++ {
		s.history.Items = append(s.history.Items, models.Submission{
			ID:         fmt.Sprintf("old-%d", i),
			ArticleURL: fmt.Sprintf("https://example.com/%d", i),
			Timestamp:  time.Now().UTC(),
			Status:     models.StatusSuccess,
		})
	}
	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(errors.New("boom"))

	result, err := s.services().Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: articleURL})
	s.Require().NoError(err)

	s.Len(s.history.Items, models.DefaultHistoryLimit)
	s.Equal(result.Submission.ID, s.history.Items[0].ID)
	s.Equal(models.StatusError, s.history.Items[0].Status)
	s.Equal("old-8", s.history.Items[models.DefaultHistoryLimit-1].ID)
}

func (s *SubmissionServiceTestSuite) TestSubmit_StorageFailureReturnsError() {
	s.history.AppendError = errors.New("disk full")
	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(nil)

	result, err := s.services().Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: articleURL})
	s.Nil(result)
	s.Error(err)
	s.ErrorIs(err, s.history.AppendError)
}

func (s *SubmissionServiceTestSuite) TestSubmit_CLISourceKept() {
	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(nil)

	result, err := s.services().Submission.Submit(context.Background(), &models.SubmitRequest{
		ArticleURL: articleURL,
		Source:     models.SourceCLI,
	})
	s.Require().NoError(err)
	s.Equal(models.SourceCLI, result.Submission.Source)
}

func (s *SubmissionServiceTestSuite) TestSubmit_EnrichmentSuccess() {
	s.settings.Values[models.SettingSummarizerAPIKey] = "sk-stored"

	gomock.InOrder(
		s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(nil),
		s.summarizer.EXPECT().Summarize(gomock.Any(), articleURL, "sk-stored").Return(nil),
	)

	result, err := s.enrichedServices().Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: articleURL})
	s.Require().NoError(err)
	s.Equal(models.StatusSuccess, result.Submission.Status)
}

func (s *SubmissionServiceTestSuite) TestSubmit_ConfiguredKeyWins() {
	s.cfg.Summarizer.APIKey = "sk-config"
	s.settings.Values[models.SettingSummarizerAPIKey] = "sk-stored"

	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(nil)
	s.summarizer.EXPECT().Summarize(gomock.Any(), articleURL, "sk-config").Return(nil)

	_, err := s.enrichedServices().Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: articleURL})
	s.Require().NoError(err)
}

func (s *SubmissionServiceTestSuite) TestSubmit_SummarizerFailure() {
	s.settings.Values[models.SettingSummarizerAPIKey] = "sk-stored"

	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(nil).Times(1)
	s.summarizer.EXPECT().Summarize(gomock.Any(), articleURL, "sk-stored").Return(errors.New("401"))

	result, err := s.enrichedServices().Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: articleURL})
	s.Require().NoError(err)

	s.Equal(models.StatusError, result.Submission.Status)
	s.Equal(models.StepSummarize, result.Submission.FailedStep)
	s.Equal(models.ToastDestructive, result.Toast.Variant)
	s.Len(s.history.Items, 1)
}

func (s *SubmissionServiceTestSuite) TestSubmit_SummarizerSkippedWhenDistributionFails() {
	s.settings.Values[models.SettingSummarizerAPIKey] = "sk-stored"

	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(errors.New("down"))
	s.summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	result, err := s.enrichedServices().Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: articleURL})
	s.Require().NoError(err)
	s.Equal(models.StepDistribute, result.Submission.FailedStep)
}

func (s *SubmissionServiceTestSuite) TestSubmit_MissingKeyRecordsError() {
	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(nil).Times(1)
	s.summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	result, err := s.enrichedServices().Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: articleURL})
	s.Require().NoError(err)

	s.Equal(models.StatusError, result.Submission.Status)
	s.Equal(models.StepSummarize, result.Submission.FailedStep)
	s.Require().Len(s.history.Items, 1)
}

func (s *SubmissionServiceTestSuite) TestSubmit_PublishesEvent() {
	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(nil)
	s.publisher.EXPECT().
		PublishSubmission(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sub *models.Submission) error {
			s.Equal(articleURL, sub.ArticleURL)
			return nil
		})

	services := service.NewServices(service.Deps{
		Repos:       s.repos,
		Distributor: s.distributor,
		Publisher:   s.publisher,
		Broker:      s.broker,
	}, s.cfg, zerolog.Nop())

	_, err := services.Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: articleURL})
	s.Require().NoError(err)
}

func (s *SubmissionServiceTestSuite) TestSubmit_PublishFailureDoesNotAffectOutcome() {
	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(nil)
	s.publisher.EXPECT().PublishSubmission(gomock.Any(), gomock.Any()).Return(errors.New("channel closed"))

	services := service.NewServices(service.Deps{
		Repos:       s.repos,
		Distributor: s.distributor,
		Publisher:   s.publisher,
		Broker:      s.broker,
	}, s.cfg, zerolog.Nop())

	result, err := services.Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: articleURL})
	s.Require().NoError(err)
	s.Equal(models.StatusSuccess, result.Submission.Status)
}

func (s *SubmissionServiceTestSuite) TestSubmit_NotifiesSubscribers() {
	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(nil)
	services := s.services()

	updates, unsubscribe := services.History.Subscribe()
	defer unsubscribe()

	result, err := services.Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: articleURL})
	s.Require().NoError(err)

	select {
	case list := <-updates:
		s.Require().Len(list, 1)
		s.Equal(result.Submission.ID, list[0].ID)
	case <-time.After(time.Second):
		s.Fail("subscriber was not notified")
	}
}

func (s *SubmissionServiceTestSuite) TestSubmit_SameURLTwiceCreatesTwoEntries() {
	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(errors.New("down"))
	s.distributor.EXPECT().Distribute(gomock.Any(), articleURL).Return(nil)
	services := s.services()

	first, err := services.Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: articleURL})
	s.Require().NoError(err)
	second, err := services.Submission.Submit(context.Background(), &models.SubmitRequest{ArticleURL: articleURL})
	s.Require().NoError(err)

	s.NotEqual(first.Submission.ID, second.Submission.ID)
	s.Require().Len(s.history.Items, 2)
	s.Equal(models.StatusSuccess, s.history.Items[0].Status)
	s.Equal(models.StatusError, s.history.Items[1].Status)
}
