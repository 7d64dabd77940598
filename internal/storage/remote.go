package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
)

// Remote is the hosted relational store. It is nil for the whole process
// lifetime when the remote backend is not configured.
type Remote interface {
	LoadUsers(ctx context.Context) ([]datamodel.User, error)
	CreateUser(ctx context.Context, row datamodel.User) error
	UpdateUser(ctx context.Context, row datamodel.User) error
	DeleteUser(ctx context.Context, id string) error
	FindUserByIDPersonnel(ctx context.Context, idPersonnel string) (*datamodel.User, error)
	FindUserByTelephone(ctx context.Context, telephone string) (*datamodel.User, error)

	LoadSessions(ctx context.Context) ([]datamodel.RecruitmentSession, error)
	CreateSession(ctx context.Context, row datamodel.RecruitmentSession) error
	UpdateSession(ctx context.Context, row datamodel.RecruitmentSession) error
	DeleteSession(ctx context.Context, id string) error

	LoadApplications(ctx context.Context) ([]datamodel.Application, error)
	CreateApplication(ctx context.Context, row datamodel.Application) error
	UpdateApplication(ctx context.Context, row datamodel.Application) error
	DeleteApplication(ctx context.Context, id string) error

	LoadTeamMembers(ctx context.Context) ([]datamodel.TeamMember, error)
	CreateTeamMember(ctx context.Context, row datamodel.TeamMember) error
	UpdateTeamMember(ctx context.Context, row datamodel.TeamMember) error
	DeleteTeamMember(ctx context.Context, id string) error

	LoadReviews(ctx context.Context) ([]datamodel.ClientReview, error)
	CreateReview(ctx context.Context, row datamodel.ClientReview) error
	UpdateReview(ctx context.Context, row datamodel.ClientReview) error
	DeleteReview(ctx context.Context, id string) error

	LoadAppointments(ctx context.Context) ([]datamodel.Appointment, error)
	CreateAppointment(ctx context.Context, row datamodel.Appointment) error
	UpdateAppointment(ctx context.Context, row datamodel.Appointment) error
	DeleteAppointment(ctx context.Context, id string) error

	LoadPartners(ctx context.Context) ([]datamodel.Partner, error)
	CreatePartner(ctx context.Context, row datamodel.Partner) error
	UpdatePartner(ctx context.Context, row datamodel.Partner) error
	DeletePartner(ctx context.Context, id string) error

	// LoadRecruitmentOpen returns nil when the remote has no stored value.
	LoadRecruitmentOpen(ctx context.Context) (*bool, error)
	SaveRecruitmentOpen(ctx context.Context, open bool) error
}

// UniqueViolationError surfaces a duplicate-key error from the remote store
// with the conflicting field resolved from the constraint name.
type UniqueViolationError struct {
	Field string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique constraint violation on %s", e.Field)
}

func asUniqueViolation(err error) (*UniqueViolationError, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil, false
	}
	field := "id_personnel"
	if strings.Contains(pgErr.ConstraintName, "telephone") {
		field = "telephone"
	}
	return &UniqueViolationError{Field: field}, true
}

type settingRow struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (settingRow) TableName() string {
	return "site_settings"
}

// GormRemote implements Remote on top of GORM/Postgres.
type GormRemote struct {
	db *gorm.DB
}

func NewGormRemote(db *gorm.DB) *GormRemote {
	return &GormRemote{db: db}
}

func wrapWrite(err error) error {
	if err == nil {
		return nil
	}
	if uv, ok := asUniqueViolation(err); ok {
		return uv
	}
	return err
}

func (r *GormRemote) LoadUsers(ctx context.Context) ([]datamodel.User, error) {
	var rows []datamodel.User
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *GormRemote) CreateUser(ctx context.Context, row datamodel.User) error {
	return wrapWrite(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *GormRemote) UpdateUser(ctx context.Context, row datamodel.User) error {
	return wrapWrite(r.db.WithContext(ctx).Save(&row).Error)
}

func (r *GormRemote) DeleteUser(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&datamodel.User{}, "id = ?", id).Error
}

// FindUserByIDPersonnel uses may-return-zero semantics: a missing row is not
// an error, it reports absence.
func (r *GormRemote) FindUserByIDPersonnel(ctx context.Context, idPersonnel string) (*datamodel.User, error) {
	return r.findUser(ctx, "id_personnel = ?", idPersonnel)
}

func (r *GormRemote) FindUserByTelephone(ctx context.Context, telephone string) (*datamodel.User, error) {
	return r.findUser(ctx, "telephone = ?", telephone)
}

func (r *GormRemote) findUser(ctx context.Context, query string, arg string) (*datamodel.User, error) {
	var row datamodel.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *GormRemote) LoadSessions(ctx context.Context) ([]datamodel.RecruitmentSession, error) {
	var rows []datamodel.RecruitmentSession
	err := r.db.WithContext(ctx).Order("start_date ASC").Find(&rows).Error
	return rows, err
}

func (r *GormRemote) CreateSession(ctx context.Context, row datamodel.RecruitmentSession) error {
	return wrapWrite(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *GormRemote) UpdateSession(ctx context.Context, row datamodel.RecruitmentSession) error {
	return wrapWrite(r.db.WithContext(ctx).Save(&row).Error)
}

func (r *GormRemote) DeleteSession(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&datamodel.RecruitmentSession{}, "id = ?", id).Error
}

func (r *GormRemote) LoadApplications(ctx context.Context) ([]datamodel.Application, error) {
	var rows []datamodel.Application
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *GormRemote) CreateApplication(ctx context.Context, row datamodel.Application) error {
	return wrapWrite(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *GormRemote) UpdateApplication(ctx context.Context, row datamodel.Application) error {
	return wrapWrite(r.db.WithContext(ctx).Save(&row).Error)
}

func (r *GormRemote) DeleteApplication(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&datamodel.Application{}, "id = ?", id).Error
}

func (r *GormRemote) LoadTeamMembers(ctx context.Context) ([]datamodel.TeamMember, error) {
	var rows []datamodel.TeamMember
	err := r.db.WithContext(ctx).Order("display_order ASC").Find(&rows).Error
	return rows, err
}

func (r *GormRemote) CreateTeamMember(ctx context.Context, row datamodel.TeamMember) error {
	return wrapWrite(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *GormRemote) UpdateTeamMember(ctx context.Context, row datamodel.TeamMember) error {
	return wrapWrite(r.db.WithContext(ctx).Save(&row).Error)
}

func (r *GormRemote) DeleteTeamMember(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&datamodel.TeamMember{}, "id = ?", id).Error
}

func (r *GormRemote) LoadReviews(ctx context.Context) ([]datamodel.ClientReview, error) {
	var rows []datamodel.ClientReview
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *GormRemote) CreateReview(ctx context.Context, row datamodel.ClientReview) error {
	return wrapWrite(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *GormRemote) UpdateReview(ctx context.Context, row datamodel.ClientReview) error {
	return wrapWrite(r.db.WithContext(ctx).Save(&row).Error)
}

func (r *GormRemote) DeleteReview(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&datamodel.ClientReview{}, "id = ?", id).Error
}

func (r *GormRemote) LoadAppointments(ctx context.Context) ([]datamodel.Appointment, error) {
	var rows []datamodel.Appointment
	err := r.db.WithContext(ctx).Order("date_time ASC").Find(&rows).Error
	return rows, err
}

func (r *GormRemote) CreateAppointment(ctx context.Context, row datamodel.Appointment) error {
	return wrapWrite(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *GormRemote) UpdateAppointment(ctx context.Context, row datamodel.Appointment) error {
	return wrapWrite(r.db.WithContext(ctx).Save(&row).Error)
}

func (r *GormRemote) DeleteAppointment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&datamodel.Appointment{}, "id = ?", id).Error
}

func (r *GormRemote) LoadPartners(ctx context.Context) ([]datamodel.Partner, error) {
	var rows []datamodel.Partner
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *GormRemote) CreatePartner(ctx context.Context, row datamodel.Partner) error {
	return wrapWrite(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *GormRemote) UpdatePartner(ctx context.Context, row datamodel.Partner) error {
	return wrapWrite(r.db.WithContext(ctx).Save(&row).Error)
}

func (r *GormRemote) DeletePartner(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&datamodel.Partner{}, "id = ?", id).Error
}

func (r *GormRemote) LoadRecruitmentOpen(ctx context.Context) (*bool, error) {
	var row settingRow
	err := r.db.WithContext(ctx).Where("key = ?", "recruitment_open").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	open := row.Value == "true"
	return &open, nil
}

func (r *GormRemote) SaveRecruitmentOpen(ctx context.Context, open bool) error {
	value := "false"
	if open {
		value = "true"
	}
	return r.db.WithContext(ctx).Save(&settingRow{Key: "recruitment_open", Value: value}).Error
}
