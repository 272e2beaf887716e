package postgres

import (
	"context"
	"errors"
	"strings"

	accessDatamodel "github.com/frahmantamala/incident-management/internal/core/datamodel/useraccess"
	"github.com/frahmantamala/incident-management/internal/useraccess"
	"gorm.io/gorm"
)

// UserAccessStore is one relational tier of the resolver chain. Two instances
// are normally wired: one over the service-credential connection and one over
// the caller-credential connection, whose visible datasets may differ under
// row security.
type UserAccessStore struct {
	db   *gorm.DB
	name string
}

func NewUserAccessStore(db *gorm.DB, name string) *UserAccessStore {
	return &UserAccessStore{db: db, name: name}
}

func (s *UserAccessStore) Name() string { return s.name }

// FindByEmail returns (nil, nil) on a clean miss so the resolver can record a
// miss rather than a failure.
func (s *UserAccessStore) FindByEmail(ctx context.Context, email string) (*useraccess.Record, error) {
	var row accessDatamodel.UserAccess
	err := s.db.WithContext(ctx).
		Where("lower(email) = ?", email).
		Limit(1).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toRecord(&row), nil
}

func toRecord(row *accessDatamodel.UserAccess) *useraccess.Record {
	rec := &useraccess.Record{
		Email:           row.Email,
		Name:            row.Name,
		RoleTitle:       row.RoleTitle,
		Enterprise:      row.Enterprise,
		Segment:         row.Segment,
		Platform:        row.Platform,
		Division:        row.Division,
		Plant:           row.Plant,
		HierarchyString: row.HierarchyString,
		IsActive:        true,
	}
	if row.Level != nil {
		rec.Level = *row.Level
	}
	if row.IsActive != nil {
		rec.IsActive = *row.IsActive
	}
	if row.AccessScope != nil && *row.AccessScope != "" {
		rec.Scope = useraccess.ParseScope(*row.AccessScope)
	}
	if row.Groups != "" {
		for _, g := range strings.Split(row.Groups, ",") {
			if g = strings.TrimSpace(g); g != "" {
				rec.Groups = append(rec.Groups, g)
			}
		}
	}
	return rec
}

// RolePermissionStore hydrates permission flags by role title.
type RolePermissionStore struct {
	db   *gorm.DB
	name string
}

func NewRolePermissionStore(db *gorm.DB, name string) *RolePermissionStore {
	return &RolePermissionStore{db: db, name: name}
}

func (s *RolePermissionStore) Name() string { return s.name }

func (s *RolePermissionStore) FindByRoleTitle(ctx context.Context, roleTitle string) (*useraccess.PermissionFlags, error) {
	var row accessDatamodel.RolePermission
	err := s.db.WithContext(ctx).
		Where("role_title = ?", roleTitle).
		Limit(1).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &useraccess.PermissionFlags{
		CanReportInjury:                   row.CanReportInjury,
		CanViewPII:                        row.CanViewPII,
		CanTakeFirstReportActions:         row.CanTakeFirstReportActions,
		CanTakeQuickFixActions:            row.CanTakeQuickFixActions,
		CanTakeIncidentRCAActions:         row.CanTakeIncidentRCAActions,
		CanPerformApprovalIncidentClosure: row.CanPerformApprovalIncidentClosure,
		CanViewManageOSHALogs:             row.CanViewManageOSHALogs,
		CanViewOpenClosedReports:          row.CanViewOpenClosedReports,
		CanViewSafetyAlerts:               row.CanViewSafetyAlerts,
		CanViewLessonsLearned:             row.CanViewLessonsLearned,
		CanViewDashboard:                  row.CanViewDashboard,
		CanSubmitDSATicket:                row.CanSubmitDSATicket,
		CanApproveLessonsLearned:          row.CanApproveLessonsLearned,
		CanReportObservation:              row.CanReportObservation,
		CanSafetyRecognition:              row.CanSafetyRecognition,
	}, nil
}
