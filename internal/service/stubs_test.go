package service

import (
	"context"
	"sync"

	"accessly/internal/models"
	"accessly/internal/payments"
)

type businessRepoStub struct {
	getByIDFn                   func(context.Context, uint) (*models.Business, error)
	markVerificationRequestedFn func(context.Context, uint) error
	confirmPaidFn               func(context.Context, uint, string, int64) error

	markCalls    int
	confirmCalls int
}

func (s *businessRepoStub) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	return s.getByIDFn(ctx, id)
}

func (s *businessRepoStub) MarkVerificationRequested(ctx context.Context, id uint) error {
	s.markCalls++
	return s.markVerificationRequestedFn(ctx, id)
}

func (s *businessRepoStub) ConfirmPaidVerificationRequest(ctx context.Context, id uint, intentID string, amountCents int64) error {
	s.confirmCalls++
	return s.confirmPaidFn(ctx, id, intentID, amountCents)
}

func noopBusinessRepo() *businessRepoStub {
	return &businessRepoStub{
		getByIDFn: func(context.Context, uint) (*models.Business, error) {
			return &models.Business{ID: 1, OwnerID: 1, Approved: true}, nil
		},
		markVerificationRequestedFn: func(context.Context, uint) error { return nil },
		confirmPaidFn:               func(context.Context, uint, string, int64) error { return nil },
	}
}

type applicationRepoStub struct {
	createFn        func(context.Context, *models.WheelerVerificationApplication) error
	getByIDFn       func(context.Context, uint) (*models.WheelerVerificationApplication, error)
	getByPairFn     func(context.Context, uint, uint) (*models.WheelerVerificationApplication, error)
	saveFn          func(context.Context, *models.WheelerVerificationApplication) error
	deletePendingFn func(context.Context, uint, uint) (bool, error)
	listPendingFn   func(context.Context) ([]models.WheelerVerificationApplication, error)
}

func (s *applicationRepoStub) Create(ctx context.Context, a *models.WheelerVerificationApplication) error {
	return s.createFn(ctx, a)
}

func (s *applicationRepoStub) GetByID(ctx context.Context, id uint) (*models.WheelerVerificationApplication, error) {
	return s.getByIDFn(ctx, id)
}

func (s *applicationRepoStub) GetByPair(ctx context.Context, businessID, wheelerID uint) (*models.WheelerVerificationApplication, error) {
	return s.getByPairFn(ctx, businessID, wheelerID)
}

func (s *applicationRepoStub) Save(ctx context.Context, a *models.WheelerVerificationApplication) error {
	return s.saveFn(ctx, a)
}

func (s *applicationRepoStub) DeletePending(ctx context.Context, businessID, wheelerID uint) (bool, error) {
	return s.deletePendingFn(ctx, businessID, wheelerID)
}

func (s *applicationRepoStub) ListPending(ctx context.Context) ([]models.WheelerVerificationApplication, error) {
	return s.listPendingFn(ctx)
}

func noopApplicationRepo() *applicationRepoStub {
	return &applicationRepoStub{
		createFn: func(context.Context, *models.WheelerVerificationApplication) error { return nil },
		getByIDFn: func(context.Context, uint) (*models.WheelerVerificationApplication, error) {
			return &models.WheelerVerificationApplication{}, nil
		},
		getByPairFn: func(context.Context, uint, uint) (*models.WheelerVerificationApplication, error) {
			return nil, nil
		},
		saveFn:          func(context.Context, *models.WheelerVerificationApplication) error { return nil },
		deletePendingFn: func(context.Context, uint, uint) (bool, error) { return true, nil },
		listPendingFn: func(context.Context) ([]models.WheelerVerificationApplication, error) {
			return nil, nil
		},
	}
}

type verificationRepoStub struct {
	getByIDFn          func(context.Context, uint) (*models.WheelerVerification, error)
	getByPairFn        func(context.Context, uint, uint) (*models.WheelerVerification, error)
	submitFn           func(context.Context, *models.WheelerVerification, int) (bool, error)
	saveFn             func(context.Context, *models.WheelerVerification) error
	countForBusinessFn func(context.Context, uint) (int64, error)
	listForBusinessFn  func(context.Context, uint) ([]models.WheelerVerification, error)
}

func (s *verificationRepoStub) GetByID(ctx context.Context, id uint) (*models.WheelerVerification, error) {
	return s.getByIDFn(ctx, id)
}

func (s *verificationRepoStub) GetByPair(ctx context.Context, businessID, wheelerID uint) (*models.WheelerVerification, error) {
	return s.getByPairFn(ctx, businessID, wheelerID)
}

func (s *verificationRepoStub) Submit(ctx context.Context, v *models.WheelerVerification, threshold int) (bool, error) {
	return s.submitFn(ctx, v, threshold)
}

func (s *verificationRepoStub) Save(ctx context.Context, v *models.WheelerVerification) error {
	return s.saveFn(ctx, v)
}

func (s *verificationRepoStub) CountForBusiness(ctx context.Context, businessID uint) (int64, error) {
	return s.countForBusinessFn(ctx, businessID)
}

func (s *verificationRepoStub) ListForBusiness(ctx context.Context, businessID uint) ([]models.WheelerVerification, error) {
	return s.listForBusinessFn(ctx, businessID)
}

func noopVerificationRepo() *verificationRepoStub {
	return &verificationRepoStub{
		getByIDFn: func(context.Context, uint) (*models.WheelerVerification, error) {
			return &models.WheelerVerification{}, nil
		},
		getByPairFn: func(context.Context, uint, uint) (*models.WheelerVerification, error) {
			return nil, nil
		},
		submitFn: func(context.Context, *models.WheelerVerification, int) (bool, error) {
			return false, nil
		},
		saveFn:             func(context.Context, *models.WheelerVerification) error { return nil },
		countForBusinessFn: func(context.Context, uint) (int64, error) { return 0, nil },
		listForBusinessFn: func(context.Context, uint) ([]models.WheelerVerification, error) {
			return nil, nil
		},
	}
}

type catalogRepoStub struct {
	listFeaturesFn func(context.Context) ([]models.AccessibilityFeature, error)
	listDevicesFn  func(context.Context) ([]models.MobilityDevice, error)
	getDeviceFn    func(context.Context, uint) (*models.MobilityDevice, error)
}

func (s *catalogRepoStub) ListFeatures(ctx context.Context) ([]models.AccessibilityFeature, error) {
	return s.listFeaturesFn(ctx)
}

func (s *catalogRepoStub) ListDevices(ctx context.Context) ([]models.MobilityDevice, error) {
	return s.listDevicesFn(ctx)
}

func (s *catalogRepoStub) GetDevice(ctx context.Context, id uint) (*models.MobilityDevice, error) {
	return s.getDeviceFn(ctx, id)
}

func noopCatalogRepo() *catalogRepoStub {
	return &catalogRepoStub{
		listFeaturesFn: func(context.Context) ([]models.AccessibilityFeature, error) { return nil, nil },
		listDevicesFn:  func(context.Context) ([]models.MobilityDevice, error) { return nil, nil },
		getDeviceFn:    func(context.Context, uint) (*models.MobilityDevice, error) { return nil, nil },
	}
}

// notifierRecorder records notifications for assertion; optionally fails
// every publish to prove workflows swallow notifier errors.
type notifierRecorder struct {
	mu         sync.Mutex
	user       []string
	admin      []string
	failAlways error
}

func (n *notifierRecorder) Notify(_ context.Context, _ uint, template string, _ map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.user = append(n.user, template)
	return n.failAlways
}

func (n *notifierRecorder) NotifyAdmins(_ context.Context, template string, _ map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.admin = append(n.admin, template)
	return n.failAlways
}

func (n *notifierRecorder) userCount(template string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, t := range n.user {
		if t == template {
			count++
		}
	}
	return count
}

type gatewayStub struct {
	createFn   func(context.Context, int64, string, map[string]string) (*payments.Intent, error)
	retrieveFn func(context.Context, string) (*payments.Intent, error)

	createCalls  int
	lastMetadata map[string]string
}

func (g *gatewayStub) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*payments.Intent, error) {
	g.createCalls++
	g.lastMetadata = metadata
	return g.createFn(ctx, amountCents, currency, metadata)
}

func (g *gatewayStub) RetrievePaymentIntent(ctx context.Context, intentID string) (*payments.Intent, error) {
	return g.retrieveFn(ctx, intentID)
}

func noopGateway() *gatewayStub {
	return &gatewayStub{
		createFn: func(_ context.Context, amount int64, currency string, metadata map[string]string) (*payments.Intent, error) {
			return &payments.Intent{ID: "pi_test", ClientSecret: "secret", Status: payments.StatusPending, AmountCents: amount, Currency: currency, Metadata: metadata}, nil
		},
		retrieveFn: func(context.Context, string) (*payments.Intent, error) {
			return &payments.Intent{ID: "pi_test", Status: payments.StatusSucceeded, Metadata: map[string]string{"business_id": "1"}}, nil
		},
	}
}
