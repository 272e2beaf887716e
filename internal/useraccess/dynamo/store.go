// Package dynamo is the key-value fallback tier of the access lookup chain.
// It mirrors the legacy directory tables: when no explicit table name is
// configured it discovers one by name pattern, preferring the longest match
// so environment-suffixed production tables win over shorter aliases. That
// discovery path is a degraded mode and is logged as such.
package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/frahmantamala/incident-management/internal/useraccess"
)

const (
	userAccessPattern     = "useraccess"
	rolePermissionPattern = "rolepermission"
)

// Config carries the connection settings plus the explicit table-name
// overrides that skip discovery entirely.
type Config struct {
	Region              string
	Endpoint            string
	AccessKey           string
	SecretKey           string
	UserAccessTable     string
	RolePermissionTable string
}

type Store struct {
	client *dynamodb.Client
	logger *slog.Logger

	userAccessTable     string
	rolePermissionTable string
}

// NewStore builds the client the same way the rest of our AWS integrations
// do: static credentials when provided, default chain otherwise.
func NewStore(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	s := &Store{
		client:              client,
		logger:              logger,
		userAccessTable:     cfg.UserAccessTable,
		rolePermissionTable: cfg.RolePermissionTable,
	}

	if s.userAccessTable == "" || s.rolePermissionTable == "" {
		if err := s.discoverTables(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Name() string {
	return "dynamo:" + s.userAccessTable
}

// discoverTables lists available tables and picks the longest name matching
// each pattern. Only runs for names not pinned by configuration.
func (s *Store) discoverTables(ctx context.Context) error {
	var names []string
	var startTable *string
	for {
		out, err := s.client.ListTables(ctx, &dynamodb.ListTablesInput{
			ExclusiveStartTableName: startTable,
		})
		if err != nil {
			return fmt.Errorf("failed to list tables for discovery: %w", err)
		}
		names = append(names, out.TableNames...)
		if out.LastEvaluatedTableName == nil {
			break
		}
		startTable = out.LastEvaluatedTableName
	}

	if s.userAccessTable == "" {
		s.userAccessTable = longestMatch(names, userAccessPattern)
		if s.userAccessTable == "" {
			return fmt.Errorf("no table matching %q found among %d tables", userAccessPattern, len(names))
		}
		s.logger.Warn("user access table resolved by name discovery, set user_access_table_name to pin it",
			"table", s.userAccessTable)
	}
	if s.rolePermissionTable == "" {
		s.rolePermissionTable = longestMatch(names, rolePermissionPattern)
		if s.rolePermissionTable == "" {
			s.logger.Warn("no role permission table found, permission flags will default to false")
		} else {
			s.logger.Warn("role permission table resolved by name discovery, set role_permission_table_name to pin it",
				"table", s.rolePermissionTable)
		}
	}
	return nil
}

func longestMatch(names []string, pattern string) string {
	best := ""
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), pattern) && len(n) > len(best) {
			best = n
		}
	}
	return best
}

// userAccessRow is the stored shape; optional attributes stay pointers so
// defaults are applied only for genuinely absent values.
type userAccessRow struct {
	Email           string   `dynamodbav:"email"`
	Name            string   `dynamodbav:"name"`
	RoleTitle       string   `dynamodbav:"roleTitle"`
	Enterprise      *string  `dynamodbav:"enterprise"`
	Segment         *string  `dynamodbav:"segment"`
	Platform        *string  `dynamodbav:"platform"`
	Division        *string  `dynamodbav:"division"`
	Plant           *string  `dynamodbav:"plant"`
	HierarchyString string   `dynamodbav:"hierarchyString"`
	Level           *int     `dynamodbav:"level"`
	IsActive        *bool    `dynamodbav:"isActive"`
	AccessScope     *string  `dynamodbav:"accessScope"`
	CognitoGroups   []string `dynamodbav:"cognitoGroups"`
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*useraccess.Record, error) {
	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(s.userAccessTable),
		FilterExpression: aws.String("#e = :email"),
		ExpressionAttributeNames: map[string]string{
			"#e": "email",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.userAccessTable, err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	var row userAccessRow
	if err := attributevalue.UnmarshalMap(out.Items[0], &row); err != nil {
		return nil, fmt.Errorf("unmarshal %s item: %w", s.userAccessTable, err)
	}

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
		Groups:          row.CognitoGroups,
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
	return rec, nil
}

// rolePermissionRow coerces each flag independently; any attribute that is
// missing or not a boolean stays false.
type rolePermissionRow struct {
	RoleTitle                         string `dynamodbav:"roleTitle"`
	CanReportInjury                   bool   `dynamodbav:"canReportInjury"`
	CanViewPII                        bool   `dynamodbav:"canViewPII"`
	CanTakeFirstReportActions         bool   `dynamodbav:"canTakeFirstReportActions"`
	CanTakeQuickFixActions            bool   `dynamodbav:"canTakeQuickFixActions"`
	CanTakeIncidentRCAActions         bool   `dynamodbav:"canTakeIncidentRCAActions"`
	CanPerformApprovalIncidentClosure bool   `dynamodbav:"canPerformApprovalIncidentClosure"`
	CanViewManageOSHALogs             bool   `dynamodbav:"canViewManageOSHALogs"`
	CanViewOpenClosedReports          bool   `dynamodbav:"canViewOpenClosedReports"`
	CanViewSafetyAlerts               bool   `dynamodbav:"canViewSafetyAlerts"`
	CanViewLessonsLearned             bool   `dynamodbav:"canViewLessonsLearned"`
	CanViewDashboard                  bool   `dynamodbav:"canViewDashboard"`
	CanSubmitDSATicket                bool   `dynamodbav:"canSubmitDSATicket"`
	CanApproveLessonsLearned          bool   `dynamodbav:"canApproveLessonsLearned"`
	CanReportObservation              bool   `dynamodbav:"canReportObservation"`
	CanSafetyRecognition              bool   `dynamodbav:"canSafetyRecognition"`
}

func (s *Store) FindByRoleTitle(ctx context.Context, roleTitle string) (*useraccess.PermissionFlags, error) {
	if s.rolePermissionTable == "" {
		return nil, nil
	}

	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(s.rolePermissionTable),
		FilterExpression: aws.String("#r = :role"),
		ExpressionAttributeNames: map[string]string{
			"#r": "roleTitle",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":role": &types.AttributeValueMemberS{Value: roleTitle},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.rolePermissionTable, err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	var row rolePermissionRow
	if err := attributevalue.UnmarshalMap(out.Items[0], &row); err != nil {
		return nil, fmt.Errorf("unmarshal %s item: %w", s.rolePermissionTable, err)
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
