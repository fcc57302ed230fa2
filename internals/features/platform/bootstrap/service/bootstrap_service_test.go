package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campusevents_backend/internals/constants"
	collegeModel "campusevents_backend/internals/features/campus/colleges/model"
	"campusevents_backend/internals/features/platform/bootstrap/dto"
	"campusevents_backend/internals/features/platform/bootstrap/model"
	userModel "campusevents_backend/internals/features/users/users/model"
	helper "campusevents_backend/internals/helpers"
	"campusevents_backend/internals/helpers/apperr"
	"campusevents_backend/internals/helpers/testdb"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	return New(db, bcrypt.MinCost), db
}

func validRequest() dto.BootstrapRequest {
	return dto.BootstrapRequest{
		College: dto.CollegeInput{Name: "  KIET Group of Institutions ", Code: "kiet "},
		Admin: dto.AdminInput{
			Name:     " Ravi Kumar ",
			Email:    "  Admin@KIET.edu ",
			Password: "s3cret-pass",
		},
	}
}

func counts(t *testing.T, db *gorm.DB) (colleges, users, markers int64) {
	return testdb.Count(t, db, &collegeModel.CollegeModel{}),
		testdb.Count(t, db, &userModel.UserModel{}),
		testdb.Count(t, db, &model.PlatformBootstrapModel{})
}

func TestBootstrap_CreatesCollegeAndAdmin(t *testing.T) {
	svc, db := newService(t)

	res, err := svc.Bootstrap(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "KIET", res.College.CollegeCode)
	assert.Equal(t, "KIET Group of Institutions", res.College.CollegeName)
	assert.Equal(t, "admin@kiet.edu", res.Admin.UserEmail)
	assert.Equal(t, "Ravi Kumar", res.Admin.UserName)
	assert.Equal(t, constants.RoleAdmin, res.Admin.UserRole)
	assert.Equal(t, res.College.CollegeID, res.Admin.UserCollegeID)
	assert.True(t, helper.CheckPassword(res.Admin.UserPasswordHash, "s3cret-pass"))
	assert.NotEqual(t, "s3cret-pass", res.Admin.UserPasswordHash)

	c, u, m := counts(t, db)
	assert.Equal(t, int64(1), c)
	assert.Equal(t, int64(1), u)
	assert.Equal(t, int64(1), m)

	ok, err := svc.IsInitialized(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBootstrap_SecondCallIsRejectedWithoutWrites(t *testing.T) {
	svc, db := newService(t)

	_, err := svc.Bootstrap(context.Background(), validRequest())
	require.NoError(t, err)

	again := validRequest()
	again.College.Code = "OTHER"
	again.Admin.Email = "someone@else.edu"
	_, err = svc.Bootstrap(context.Background(), again)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindPrecondition))

	c, u, m := counts(t, db)
	assert.Equal(t, int64(1), c)
	assert.Equal(t, int64(1), u)
	assert.Equal(t, int64(1), m)
}

func TestBootstrap_CodeNormalization(t *testing.T) {
	for _, code := range []string{"kiet ", "KIET", " Kiet"} {
		t.Run(code, func(t *testing.T) {
			svc, _ := newService(t)
			req := validRequest()
			req.College.Code = code

			res, err := svc.Bootstrap(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, "KIET", res.College.CollegeCode)
		})
	}
}

func TestBootstrap_ValidationListsAllFields(t *testing.T) {
	svc, db := newService(t)

	logo := "not a url"
	_, err := svc.Bootstrap(context.Background(), dto.BootstrapRequest{
		College: dto.CollegeInput{Name: " ", Code: "K-1", Logo: &logo},
		Admin:   dto.AdminInput{Name: "R", Email: "nope", Password: "short"},
	})
	require.Error(t, err)

	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	for _, field := range []string{"college.name", "college.code", "college.logo", "admin.name", "admin.email", "admin.password"} {
		assert.Contains(t, ae.Fields, field)
	}

	c, u, _ := counts(t, db)
	assert.Zero(t, c)
	assert.Zero(t, u)
}

func TestBootstrap_BlankLogoIsDropped(t *testing.T) {
	svc, _ := newService(t)
	req := validRequest()
	blank := "   "
	req.College.Logo = &blank

	res, err := svc.Bootstrap(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, res.College.CollegeLogoURL)
}

func TestBootstrap_EmailConflictRollsBack(t *testing.T) {
	svc, db := newService(t)

	// a user row without any college, e.g. left over from a manual import
	require.NoError(t, db.Create(&userModel.UserModel{
		UserName: "Old", UserEmail: "admin@kiet.edu", UserPasswordHash: "x",
		UserRole: constants.RoleStudent, UserIsActive: true,
	}).Error)

	_, err := svc.Bootstrap(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	ae, _ := apperr.As(err)
	assert.Equal(t, ErrEmailTaken.Message, ae.Message)

	c, u, m := counts(t, db)
	assert.Zero(t, c)
	assert.Equal(t, int64(1), u)
	assert.Zero(t, m)
}

func TestBootstrap_MarkerRowGuardsAgainstStaleCount(t *testing.T) {
	svc, db := newService(t)

	_, err := svc.Bootstrap(context.Background(), validRequest())
	require.NoError(t, err)

	// wipe tenants but keep the marker: the count fast path now says "empty"
	require.NoError(t, db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&userModel.UserModel{}).Error)
	require.NoError(t, db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&collegeModel.CollegeModel{}).Error)

	_, err = svc.Bootstrap(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	c, u, m := counts(t, db)
	assert.Zero(t, c, "college insert must roll back")
	assert.Zero(t, u, "admin insert must roll back")
	assert.Equal(t, int64(1), m)
}

// Calls are issued in parallel but the single-connection test store runs
// their transactions one after another; the stale-count interleaving is
// covered by TestBootstrap_MarkerRowGuardsAgainstStaleCount.
func TestBootstrap_ParallelCallsCreateOneTenant(t *testing.T) {
	svc, db := newService(t)

	const n = 6
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		success  int
		failures []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Bootstrap(context.Background(), validRequest())
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				success++
				return
			}
			failures = append(failures, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	require.Len(t, failures, n-1)
	for _, err := range failures {
		kind := apperr.KindOf(err)
		assert.Contains(t, []apperr.Kind{apperr.KindPrecondition, apperr.KindConflict}, kind, err.Error())
	}

	c, u, m := counts(t, db)
	assert.Equal(t, int64(1), c)
	assert.Equal(t, int64(1), u)
	assert.Equal(t, int64(1), m)
}
