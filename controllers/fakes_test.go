package controllers

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nkwenti/civicbackend/models"
	"github.com/nkwenti/civicbackend/store"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by hex id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id.Hex()]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) FindByVerificationToken(_ context.Context, token string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.EmailVerificationToken != nil && *u.EmailVerificationToken == token &&
			u.EmailVerificationExpiry != nil && u.EmailVerificationExpiry.After(time.Now().UTC()) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	copied := *user
	s.users[user.ID.Hex()] = &copied
	return nil
}

func (s *fakeUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID.Hex()]; !ok {
		return store.ErrNotFound
	}
	copied := *user
	s.users[user.ID.Hex()] = &copied
	return nil
}

func (s *fakeUserStore) delete(id bson.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id.Hex())
}

type fakeOTPStore struct {
	mu   sync.Mutex
	otps []*models.OTP
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{}
}

func (s *fakeOTPStore) Create(_ context.Context, userID bson.ObjectID, code string, expiresAt time.Time) (*models.OTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	otp := &models.OTP{
		ID:        bson.NewObjectID(),
		UserID:    userID,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	s.otps = append(s.otps, otp)
	return otp, nil
}

// Consume mirrors the mongo store's conditional update: the check and
// the flip happen under one lock, so a code can be consumed once only.
func (s *fakeOTPStore) Consume(_ context.Context, userID bson.ObjectID, code string) (*models.OTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, otp := range s.otps {
		if otp.UserID == userID && otp.Code == code && !otp.IsUsed && otp.ExpiresAt.After(time.Now().UTC()) {
			otp.IsUsed = true
			copied := *otp
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeOTPStore) expireAll(userID bson.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, otp := range s.otps {
		if otp.UserID == userID {
			otp.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		}
	}
}

type recordingMailer struct {
	mu                 sync.Mutex
	verificationTokens []string
	otpCodes           []string
	failVerification   bool
	failOTP            bool
}

type dispatchError struct{}

func (dispatchError) Error() string { return "smtp dial failed" }

func (m *recordingMailer) SendVerificationEmail(email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failVerification {
		return dispatchError{}
	}
	m.verificationTokens = append(m.verificationTokens, token)
	return nil
}

func (m *recordingMailer) SendOTPEmail(email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOTP {
		return dispatchError{}
	}
	m.otpCodes = append(m.otpCodes, code)
	return nil
}

func (m *recordingMailer) lastOTP() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.otpCodes) == 0 {
		return ""
	}
	return m.otpCodes[len(m.otpCodes)-1]
}

func (m *recordingMailer) lastVerificationToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.verificationTokens) == 0 {
		return ""
	}
	return m.verificationTokens[len(m.verificationTokens)-1]
}

type fakeComplaintStore struct {
	mu         sync.Mutex
	complaints map[string]*models.Complaint
}

func newFakeComplaintStore() *fakeComplaintStore {
	return &fakeComplaintStore{complaints: make(map[string]*models.Complaint)}
}

func (s *fakeComplaintStore) Create(_ context.Context, complaint *models.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if complaint.ID.IsZero() {
		complaint.ID = bson.NewObjectID()
	}
	copied := *complaint
	s.complaints[complaint.ID.Hex()] = &copied
	return nil
}

func (s *fakeComplaintStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.complaints[id.Hex()]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *fakeComplaintStore) Find(_ context.Context, filter store.ComplaintFilter) ([]models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Complaint, 0)
	for _, c := range s.complaints {
		if filter.CitizenID != nil && c.CitizenID != *filter.CitizenID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *fakeComplaintStore) Update(_ context.Context, complaint *models.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.complaints[complaint.ID.Hex()]; !ok {
		return store.ErrNotFound
	}
	copied := *complaint
	s.complaints[complaint.ID.Hex()] = &copied
	return nil
}

func (s *fakeComplaintStore) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.complaints[id.Hex()]; !ok {
		return store.ErrNotFound
	}
	delete(s.complaints, id.Hex())
	return nil
}
