package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"aether-lms/backend/internal/dto"
	"aether-lms/backend/internal/model"
	"aether-lms/backend/internal/policy"
	"aether-lms/backend/internal/repository"
)

// UserService 用户业务接口（管理员）
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
	// ChangeRole 在同一事务内持有配额锁与目标行锁完成校验与写入
	ChangeRole(ctx context.Context, id string, req *dto.ChangeRoleRequest) (*dto.ChangeRoleResponse, error)
	ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error)
	ParseImportFile(reader io.Reader) ([]ImportUserRow, error)
	ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error)
}

// ImportUserRow Excel 导入解析后的单行数据
type ImportUserRow struct {
	Row       int
	Email     string
	FirstName string
	LastName  string
	Role      string
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := model.RoleStudent
	if req.Role != "" {
		r, err := model.ParseRole(req.Role)
		if err != nil {
			return nil, ErrInvalidRole
		}
		role = r
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 直接创建管理员同样受配额约束
		if role == model.RoleAdmin {
			if err := tx.User.LockRoleQuota(ctx); err != nil {
				return err
			}
			n, err := tx.User.CountByRole(ctx, model.RoleAdmin)
			if err != nil {
				return err
			}
			if n >= model.MaxAdmins {
				return policy.ErrAdminQuotaExceeded
			}
		}
		return tx.User.Create(ctx, user)
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailExists
		}
		if errors.Is(err, policy.ErrAdminQuotaExceeded) {
			return nil, err
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	var role *model.Role
	if req.Role != "" {
		r, err := model.ParseRole(req.Role)
		if err != nil {
			return nil, 0, ErrInvalidRole
		}
		role = &r
	}

	users, total, err := s.repo.User.List(ctx, role, repository.Page{
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, err
	}

	return mapSlice(users, toUserResponse), total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	// 仅更新非 nil 字段
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	user.UpdatedAt = s.now()

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if id == actor.ID {
		return ErrCannotDeleteSelf
	}

	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		if isForeignKeyViolated(err) {
			return ErrUserHasRecords
		}
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("用户已删除", zap.String("id", id), zap.String("by", actor.ID))
	return nil
}

// ────────────────────── ChangeRole ──────────────────────

func (s *userService) ChangeRole(ctx context.Context, id string, req *dto.ChangeRoleRequest) (*dto.ChangeRoleResponse, error) {
	next, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}

	var (
		user     *model.User
		previous model.Role
	)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. 串行化所有角色变更，保证管理员计数与写入之间无并发插入
		if err := tx.User.LockRoleQuota(ctx); err != nil {
			return err
		}

		// 2. 锁定目标用户行
		u, err := tx.User.GetByIDForUpdate(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}

		// 3. 在锁内读取管理员数量并校验
		adminCount, err := tx.User.CountByRole(ctx, model.RoleAdmin)
		if err != nil {
			return err
		}
		if err := policy.CheckRoleChange(u.Role, next, adminCount); err != nil {
			return err
		}

		previous = u.Role
		u.Role = next
		if err := tx.User.Update(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		s.logger.Warn("角色变更失败",
			zap.String("id", id), zap.String("role", req.Role), zap.Error(err))
		return nil, err
	}

	changedAt := s.now()
	user.UpdatedAt = changedAt
	s.logger.Info("用户角色已变更",
		zap.String("id", id),
		zap.String("from", previous.String()),
		zap.String("to", next.String()))

	return &dto.ChangeRoleResponse{
		Message:      fmt.Sprintf("角色已由 %s 变更为 %s", previous, next),
		User:         toUserResponse(user),
		PreviousRole: previous.String(),
		NewRole:      next.String(),
		Reason:       req.Reason,
		ChangedAt:    changedAt,
	}, nil
}

// ────────────────────── ResetPassword ──────────────────────

func (s *userService) ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	tempPassword, err := generateTempPassword(10)
	if err != nil {
		s.logger.Error("生成临时密码失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user.PasswordHash = string(hash)
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("重置密码失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.ResetPasswordResponse{TempPassword: tempPassword}, nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（邮箱/名/姓）")
)

// ParseImportFile 解析导入 Excel 文件，返回解析后的行数据
func (s *userService) ParseImportFile(reader io.Reader) ([]ImportUserRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["email"] < 0 || colIndex["first_name"] < 0 || colIndex["last_name"] < 0 {
		return nil, ErrImportBadHeader
	}

	cell := func(row []string, key string) string {
		if idx := colIndex[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportUserRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportUserRow{
			Row:       i + 1,
			Email:     cell(row, "email"),
			FirstName: cell(row, "first_name"),
			LastName:  cell(row, "last_name"),
			Role:      cell(row, "role"),
		}

		// 跳过全空行
		if item.Email == "" && item.FirstName == "" && item.LastName == "" && item.Role == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"email":      -1,
		"first_name": -1,
		"last_name":  -1,
		"role":       -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "邮箱", "email":
			idx["email"] = i
		case "名", "first_name", "first name":
			idx["first_name"] = i
		case "姓", "last_name", "last name":
			idx["last_name"] = i
		case "角色", "role":
			idx["role"] = i
		}
	}
	return idx
}

// ────────────────────── ImportUsers ──────────────────────

// ImportUsers 两阶段导入：先逐行校验，再在单个事务中批量写入（任一失败全部回滚）
// 管理员受配额约束，不支持批量导入
func (s *userService) ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error) {
	resp := &dto.ImportUserResponse{Total: len(rows)}

	type validatedRow struct {
		row      ImportUserRow
		role     model.Role
		password string
		hash     []byte
	}
	var validRows []validatedRow
	seen := make(map[string]int, len(rows))

	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportUserError{Row: row, Reason: reason})
	}

	// 第一阶段：数据预校验（不接触数据库写操作）
	for _, row := range rows {
		if row.Email == "" || row.FirstName == "" || row.LastName == "" {
			fail(row.Row, "必填字段为空")
			continue
		}

		role := model.RoleStudent
		if row.Role != "" {
			r, err := model.ParseRole(strings.ToUpper(row.Role))
			if err != nil {
				fail(row.Row, fmt.Sprintf("无效的角色: %s", row.Role))
				continue
			}
			role = r
		}
		if role == model.RoleAdmin {
			fail(row.Row, "不支持批量导入管理员")
			continue
		}

		email := normalizeEmail(row.Email)
		if prev, ok := seen[email]; ok {
			fail(row.Row, fmt.Sprintf("邮箱与第 %d 行重复: %s", prev, email))
			continue
		}
		if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
			fail(row.Row, fmt.Sprintf("邮箱已存在: %s", email))
			continue
		} else if !isNotFound(err) {
			return nil, err
		}
		seen[email] = row.Row
		row.Email = email

		password, err := generateTempPassword(10)
		if err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			fail(row.Row, "密码哈希失败")
			continue
		}

		validRows = append(validRows, validatedRow{row: row, role: role, password: password, hash: hash})
	}

	if len(validRows) == 0 {
		return resp, nil
	}

	// 第二阶段：在事务中批量创建所有通过校验的用户
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, vr := range validRows {
			user := &model.User{
				Email:        vr.row.Email,
				PasswordHash: string(vr.hash),
				FirstName:    vr.row.FirstName,
				LastName:     vr.row.LastName,
				Role:         vr.role,
			}
			if err := tx.User.Create(ctx, user); err != nil {
				s.logger.Error("导入用户写入失败，事务回滚",
					zap.Int("row", vr.row.Row), zap.Error(err))
				return fmt.Errorf("第 %d 行写入数据库失败，已回滚全部导入: %w", vr.row.Row, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, vr := range validRows {
		resp.Success++
		resp.Created = append(resp.Created, dto.ImportedUser{
			Row:          vr.row.Row,
			Email:        vr.row.Email,
			TempPassword: vr.password,
		})
	}

	return resp, nil
}

// ── 内部辅助方法 ──

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// generateTempPassword 生成指定长度的临时密码（保证包含字母和数字）
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 6 {
		length = 10
	}

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	result := make([]byte, length)
	var err error

	// 保证至少1个字母+1个数字
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
	}

	// Fisher-Yates 洗牌
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}

	return string(result), nil
}
