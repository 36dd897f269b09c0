package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"aether-lms/backend/config"
	"aether-lms/backend/internal/model"
	"aether-lms/backend/internal/policy"
	"aether-lms/backend/internal/repository"
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	// ExportGradebook 导出课程成绩册 (.xlsx)：课程总评 + 作业成绩矩阵
	ExportGradebook(ctx context.Context, actor policy.Actor, courseID string) (*bytes.Buffer, string, error)
	// ExportCalendar 导出学生已选课程（ACTIVE）的作业截止日历 (.ics)
	ExportCalendar(ctx context.Context, studentID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportGradebook 导出课程成绩册为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "课程总评"：学生 | 邮箱 | 等级 | 百分比 | 评语
//   - Sheet "作业成绩"：行为选课学生，列为课程作业（按截止时间升序），单元格为得分
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportGradebook(ctx context.Context, actor policy.Actor, courseID string) (*bytes.Buffer, string, error) {
	// 1. 课程与权限
	course, err := loadCourse(ctx, s.repo, courseID)
	if err != nil {
		return nil, "", err
	}
	if err := authorizeCourse(actor, policy.ActionViewCourseRoster, course); err != nil {
		return nil, "", err
	}

	// 2. 并行查询选课名单、作业、作业成绩、课程总评
	var (
		enrollments      []model.Enrollment
		assignments      []model.Assignment
		assignmentGrades []model.AssignmentGrade
		courseGrades     []model.CourseGrade
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		enrollments, err = s.repo.Enrollment.List(gctx, repository.EnrollmentQuery{CourseID: courseID})
		return err
	})
	g.Go(func() (err error) {
		assignments, err = s.repo.Assignment.List(gctx, repository.AssignmentQuery{CourseID: courseID, DueAsc: true})
		return err
	})
	g.Go(func() (err error) {
		assignmentGrades, err = s.repo.AssignmentGrade.List(gctx, repository.AssignmentGradeQuery{CourseID: courseID})
		return err
	})
	g.Go(func() (err error) {
		courseGrades, err = s.repo.CourseGrade.List(gctx, repository.CourseGradeQuery{CourseID: courseID})
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("查询成绩册数据失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", err
	}

	// 3. 索引: "studentID:assignmentID" → 得分
	scoreIndex := make(map[string]float64, len(assignmentGrades))
	for _, ag := range assignmentGrades {
		scoreIndex[ag.StudentID+":"+ag.AssignmentID] = ag.Score
	}

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// Sheet 1: 课程总评
	summarySheet := "课程总评"
	idx, _ := f.NewSheet(summarySheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(summarySheet, "A1", fmt.Sprintf("%s (%s) 课程总评", course.Title, course.Code))
	f.MergeCell(summarySheet, "A1", "E1")
	f.SetCellStyle(summarySheet, "A1", "A1", headerStyle)

	headers := []string{"学生", "邮箱", "等级", "百分比", "评语"}
	for i, h := range headers {
		f.SetCellValue(summarySheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(summarySheet, "A2", cell(colName(len(headers)-1), 2), headerStyle)
	f.SetColWidth(summarySheet, "A", "B", 24)
	f.SetColWidth(summarySheet, "C", "D", 10)
	f.SetColWidth(summarySheet, "E", "E", 40)

	row := 3
	for _, cg := range courseGrades {
		name, email := "", ""
		if cg.Student != nil {
			name, email = cg.Student.FullName(), cg.Student.Email
		}
		f.SetCellValue(summarySheet, cell("A", row), name)
		f.SetCellValue(summarySheet, cell("B", row), email)
		f.SetCellValue(summarySheet, cell("C", row), cg.LetterGrade)
		f.SetCellValue(summarySheet, cell("D", row), cg.Percentage)
		f.SetCellValue(summarySheet, cell("E", row), derefString(cg.Comments))
		row++
	}

	// Sheet 2: 作业成绩矩阵
	matrixSheet := "作业成绩"
	f.NewSheet(matrixSheet)
	f.SetCellValue(matrixSheet, "A1", "学生")
	f.SetCellValue(matrixSheet, "B1", "邮箱")
	for i, a := range assignments {
		f.SetCellValue(matrixSheet, cell(colName(2+i), 1), fmt.Sprintf("%s (/%g)", a.Title, a.MaxScore))
	}
	f.SetCellStyle(matrixSheet, "A1", cell(colName(1+len(assignments)), 1), headerStyle)
	f.SetColWidth(matrixSheet, "A", "B", 24)
	if len(assignments) > 0 {
		f.SetColWidth(matrixSheet, colName(2), colName(1+len(assignments)), 18)
	}

	row = 2
	for _, e := range enrollments {
		if e.Student != nil {
			f.SetCellValue(matrixSheet, cell("A", row), e.Student.FullName())
			f.SetCellValue(matrixSheet, cell("B", row), e.Student.Email)
		}
		for i, a := range assignments {
			if score, ok := scoreIndex[e.StudentID+":"+a.AssignmentID]; ok {
				f.SetCellValue(matrixSheet, cell(colName(2+i), row), score)
			} else {
				f.SetCellValue(matrixSheet, cell(colName(2+i), row), "-")
			}
		}
		row++
	}

	// 5. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("gradebook_%s.xlsx", safeFilename(course.Code))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar 导出作业截止日历为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportCalendar(ctx context.Context, studentID string) (*bytes.Buffer, string, error) {
	assignments, err := s.repo.Assignment.List(ctx, repository.AssignmentQuery{
		StudentID:  studentID,
		ActiveOnly: true,
		DueAsc:     true,
	})
	if err != nil {
		s.logger.Error("查询作业失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, "", err
	}

	now := s.now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Aether LMS//Assignments//ZH")
	cal.SetName("作业截止日历")

	for _, a := range assignments {
		if a.DueDate == nil {
			continue
		}
		due := a.DueDate.UTC()

		evt := cal.AddEvent(fmt.Sprintf("assignment-%s@aether-lms", a.AssignmentID))
		evt.SetDtStampTime(now)
		evt.SetCreatedTime(a.CreatedAt.UTC())
		evt.SetModifiedAt(a.UpdatedAt.UTC())
		evt.SetStartAt(due)
		evt.SetEndAt(due)

		summary := a.Title
		if a.Course != nil {
			summary = fmt.Sprintf("[%s] %s", a.Course.Code, a.Title)
		}
		evt.SetSummary(summary)
		if a.Description != "" {
			evt.SetDescription(a.Description)
		}
		if base := strings.TrimRight(s.cfg.Server.BaseURL, "/"); base != "" {
			evt.SetURL(fmt.Sprintf("%s/assignments/%s", base, a.AssignmentID))
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "assignments.ics", nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// safeFilename 仅保留字母、数字、连字符与下划线
func safeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "course"
	}
	return b.String()
}
