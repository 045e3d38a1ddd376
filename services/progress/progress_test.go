package progress_test

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"learnhub/apperrors"
	"learnhub/database"
	"learnhub/models"
	commercemodels "learnhub/models/commerce"
	progressmodels "learnhub/models/progress"
	"learnhub/services/catalog"
	"learnhub/services/commerce"
	"learnhub/services/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:progress%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	return db
}

type stubGenerator struct {
	calls int32
	fail  bool
}

func (g *stubGenerator) Generate(userID, programID uint, serial string) (string, error) {
	atomic.AddInt32(&g.calls, 1)
	if g.fail {
		return "", errors.New("renderer unavailable")
	}
	return fmt.Sprintf("https://certs.example.com/%d-%d.pdf", userID, programID), nil
}

type fixture struct {
	db       *gorm.DB
	commerce *commerce.Service
	progress *progress.Service
	userID   uint
	program  uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)

	commerceSvc := commerce.NewService(db)
	progressSvc := progress.NewService(db, commerceSvc)
	commerceSvc.Completions = progressSvc

	user := models.User{Email: "ada@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	program, err := catalog.NewService(db).CreateProgram(catalog.ProgramInput{Name: "Go Backend", Price: 500})
	require.NoError(t, err)

	return &fixture{db: db, commerce: commerceSvc, progress: progressSvc, userID: user.ID, program: program.ID}
}

// activate runs the full commercial path so the completion record opens.
func (f *fixture) activate(t *testing.T) *commercemodels.Enrollment {
	t.Helper()
	enrollment, err := f.commerce.Enroll(f.userID, f.program)
	require.NoError(t, err)
	payment, err := f.commerce.RecordPayment(enrollment.ID, 500)
	require.NoError(t, err)
	require.NoError(t, f.commerce.ConfirmPayment(payment.ID))
	require.NoError(t, f.commerce.ActivateEnrollment(enrollment.ID))
	return enrollment
}

func TestActivationOpensCompletion(t *testing.T) {
	f := newFixture(t)
	f.activate(t)

	completion, err := f.progress.GetCompletion(f.userID, f.program)
	require.NoError(t, err)
	assert.Equal(t, progressmodels.CompletionPending, completion.Status)
	assert.Nil(t, completion.StartedAt)
	assert.Nil(t, completion.FinishedAt)
}

func TestAdvanceCompletionLifecycle(t *testing.T) {
	f := newFixture(t)
	gen := &stubGenerator{}
	f.progress.Generator = gen
	enrollment := f.activate(t)

	completion, err := f.progress.AdvanceCompletion(f.userID, f.program, progressmodels.CompletionActive)
	require.NoError(t, err)
	assert.Equal(t, progressmodels.CompletionActive, completion.Status)
	require.NotNil(t, completion.StartedAt)

	completion, err = f.progress.AdvanceCompletion(f.userID, f.program, progressmodels.CompletionCompleted)
	require.NoError(t, err)
	assert.Equal(t, progressmodels.CompletionCompleted, completion.Status)
	require.NotNil(t, completion.FinishedAt)
	assert.False(t, completion.FinishedAt.Before(*completion.StartedAt))

	// certificate issued exactly once with the generated URL
	assert.EqualValues(t, 1, gen.calls)
	cert, err := f.progress.GetCertificate(f.userID, f.program)
	require.NoError(t, err)
	assert.Contains(t, cert.CertificateURL, "https://certs.example.com/")
	assert.NotEmpty(t, cert.CertificateNumber)

	// the commercial enrollment completed alongside
	reloaded, err := f.commerce.GetEnrollment(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, commercemodels.EnrollmentCompleted, reloaded.Status)

	// completed is terminal
	_, err = f.progress.AdvanceCompletion(f.userID, f.program, progressmodels.CompletionCancelled)
	assert.True(t, apperrors.IsConflict(err))
}

func TestAdvanceCompletionWithoutActiveRecord(t *testing.T) {
	f := newFixture(t)

	// no completion record at all
	_, err := f.progress.AdvanceCompletion(f.userID, f.program, progressmodels.CompletionCompleted)
	assert.True(t, apperrors.IsConflict(err))

	// pending record cannot jump straight to completed
	f.activate(t)
	_, err = f.progress.AdvanceCompletion(f.userID, f.program, progressmodels.CompletionCompleted)
	assert.True(t, apperrors.IsConflict(err))

	_, err = f.progress.AdvanceCompletion(f.userID, f.program, "DONE")
	assert.True(t, apperrors.IsValidation(err))
}

func TestIssueCertificateOnce(t *testing.T) {
	f := newFixture(t)
	f.activate(t)

	_, err := f.progress.AdvanceCompletion(f.userID, f.program, progressmodels.CompletionActive)
	require.NoError(t, err)
	_, err = f.progress.AdvanceCompletion(f.userID, f.program, progressmodels.CompletionCompleted)
	require.NoError(t, err)

	// completion already issued the certificate; a second issue conflicts
	_, err = f.progress.IssueCertificate(f.userID, f.program, "https://certs.example.com/manual.pdf")
	assert.True(t, apperrors.IsConflict(err))

	var count int64
	require.NoError(t, f.db.Model(&progressmodels.Certificate{}).
		Where("user_id = ? AND program_id = ?", f.userID, f.program).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestIssueCertificateRequiresCompleted(t *testing.T) {
	f := newFixture(t)

	_, err := f.progress.IssueCertificate(f.userID, f.program, "https://certs.example.com/x.pdf")
	assert.True(t, apperrors.IsConflict(err))

	f.activate(t)
	_, err = f.progress.IssueCertificate(f.userID, f.program, "https://certs.example.com/x.pdf")
	assert.True(t, apperrors.IsConflict(err))
}

func TestGeneratorFailureKeepsCompletion(t *testing.T) {
	f := newFixture(t)
	f.progress.Generator = &stubGenerator{fail: true}
	f.activate(t)

	_, err := f.progress.AdvanceCompletion(f.userID, f.program, progressmodels.CompletionActive)
	require.NoError(t, err)
	_, err = f.progress.AdvanceCompletion(f.userID, f.program, progressmodels.CompletionCompleted)
	require.Error(t, err)

	// the completion committed; only the certificate path failed
	completion, getErr := f.progress.GetCompletion(f.userID, f.program)
	require.NoError(t, getErr)
	assert.Equal(t, progressmodels.CompletionCompleted, completion.Status)

	_, certErr := f.progress.GetCertificate(f.userID, f.program)
	assert.True(t, apperrors.IsNotFound(certErr))

	// issuance can be re-driven manually once the renderer recovers
	_, err = f.progress.IssueCertificate(f.userID, f.program, "https://certs.example.com/retry.pdf")
	require.NoError(t, err)
}

func TestCancelCompletion(t *testing.T) {
	f := newFixture(t)
	f.activate(t)

	completion, err := f.progress.AdvanceCompletion(f.userID, f.program, progressmodels.CompletionCancelled)
	require.NoError(t, err)
	assert.Equal(t, progressmodels.CompletionCancelled, completion.Status)

	// cancelled is terminal
	_, err = f.progress.AdvanceCompletion(f.userID, f.program, progressmodels.CompletionActive)
	assert.True(t, apperrors.IsConflict(err))
}

func TestRepeatedActivationKeepsCompletion(t *testing.T) {
	f := newFixture(t)
	enrollment := f.activate(t)

	_, err := f.progress.AdvanceCompletion(f.userID, f.program, progressmodels.CompletionActive)
	require.NoError(t, err)
	started, err := f.progress.GetCompletion(f.userID, f.program)
	require.NoError(t, err)

	// cancel commerce side and re-enroll; the pair keeps its one record
	require.NoError(t, f.commerce.CancelEnrollment(enrollment.ID))
	f.activate(t)

	completion, err := f.progress.GetCompletion(f.userID, f.program)
	require.NoError(t, err)
	assert.Equal(t, started.ID, completion.ID)
	assert.Equal(t, progressmodels.CompletionActive, completion.Status)
}
