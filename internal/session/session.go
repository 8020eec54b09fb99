// Package session 保存界面收集到的输入（花名册、日期、目标目录、周标签），
// 并在输入齐全时驱动生成。Web 界面与命令行共用同一个 Session。
package session

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nomina/internal/model"
	"nomina/internal/render"
	"nomina/internal/roster"
	"nomina/internal/week"
)

// ErrBusy 已有生成任务在进行
var ErrBusy = errors.New("generation already in progress")

const displayDate = "2006-01-02"

// Renderer 文档生成器
type Renderer interface {
	Render(job render.Job) (render.Result, error)
}

// Recorder 生成历史记录器（可选）
type Recorder interface {
	RecordGeneration(rec model.GenerationRecord) error
}

// Options Session 选项
type Options struct {
	Locale   week.Locale
	Format   render.Format
	Recorder Recorder
}

// Session 一个界面会话的全部状态
type Session struct {
	mu    sync.Mutex
	genMu sync.Mutex

	renderer Renderer
	recorder Recorder
	locale   week.Locale
	msgs     messages
	format   render.Format

	roster     []model.RosterEntry
	rosterFile string
	dates      model.DateRange // 零值表示尚未选择
	outputDir  string
	week       *model.WeekInfo
	label      string // 用户手动修改后的周标签，空表示使用计算值
	status     string
}

// New 创建会话
func New(r Renderer, opts Options) *Session {
	loc := opts.Locale
	if loc.Tag.IsRoot() {
		loc = week.English()
	}
	format := opts.Format
	if format == "" {
		format = render.FormatPDF
	}
	return &Session{
		renderer: r,
		recorder: opts.Recorder,
		locale:   loc,
		msgs:     messagesFor(loc),
		format:   format,
	}
}

// State 会话快照（供界面展示）
type State struct {
	RosterFile string              `json:"rosterFile"`
	Employees  int                 `json:"employees"`
	Roster     []model.RosterEntry `json:"roster"`
	Start      string              `json:"start"`
	End        string              `json:"end"`
	OutputDir  string              `json:"outputDir"`
	Week       *model.WeekInfo     `json:"week"`
	Label      string              `json:"label"`
	Format     render.Format       `json:"format"`
	Status     string              `json:"status"`
	Missing    []string            `json:"missing"`
	Ready      bool                `json:"ready"`
}

// Snapshot 当前状态副本
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		RosterFile: s.rosterFile,
		Employees:  len(s.roster),
		Roster:     append([]model.RosterEntry(nil), s.roster...),
		OutputDir:  s.outputDir,
		Label:      s.effectiveLabelLocked(),
		Format:     s.format,
		Status:     s.status,
		Missing:    s.missingLocked(),
	}
	if !s.dates.Start.IsZero() {
		st.Start = s.dates.Start.Format(displayDate)
	}
	if !s.dates.End.IsZero() {
		st.End = s.dates.End.Format(displayDate)
	}
	if s.week != nil {
		w := s.week.WithLabel(st.Label)
		st.Week = &w
	}
	st.Ready = len(st.Missing) == 0
	return st
}

// SelectRoster 读取花名册文件，path 为空表示用户取消了选择
func (s *Session) SelectRoster(path string) (string, error) {
	entries, err := roster.Load(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.failLocked(err), err
	}
	s.roster = entries
	if path == "" {
		s.rosterFile = ""
		return s.setStatusLocked(s.msgs.rosterNone), nil
	}
	s.rosterFile = filepath.Base(path)
	log.Printf("roster %s loaded: %d employees", s.rosterFile, len(entries))
	return s.setStatusLocked(s.msgs.rosterSelected), nil
}

// SetStart 设置起始日期
func (s *Session) SetStart(d time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := calendarDay(d)
	s.dates.Start = day
	status := s.setStatusLocked(fmt.Sprintf(s.msgs.startSelected, day.Format(displayDate)))
	s.recomputeLocked()
	return status
}

// SetEnd 设置结束日期
func (s *Session) SetEnd(d time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := calendarDay(d)
	s.dates.End = day
	status := s.setStatusLocked(fmt.Sprintf(s.msgs.endSelected, day.Format(displayDate)))
	s.recomputeLocked()
	return status
}

// recomputeLocked 两个日期都已选定时重新计算周信息，并丢弃旧的手动标签
func (s *Session) recomputeLocked() {
	if s.dates.Start.IsZero() || s.dates.End.IsZero() {
		return
	}
	w := week.ComputeRange(s.dates, s.locale)
	s.week = &w
	s.label = ""
}

// OverrideLabel 用户在生成前手动修改周标签，空字符串恢复计算值
func (s *Session) OverrideLabel(label string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = strings.TrimSpace(label)
	return s.setStatusLocked(fmt.Sprintf(s.msgs.labelChanged, s.effectiveLabelLocked()))
}

// SelectOutputDir 设置目标目录，空值表示用户取消
func (s *Session) SelectOutputDir(dir string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return s.setStatusLocked(s.msgs.folderNone)
	}
	s.outputDir = dir
	return s.setStatusLocked(fmt.Sprintf(s.msgs.folderSelected, dir))
}

// SetFormat 设置输出格式
func (s *Session) SetFormat(f render.Format) error {
	format, err := render.ParseFormat(string(f))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.format = format
	s.mu.Unlock()
	return nil
}

// Generated 生成结果
type Generated struct {
	render.Result
	Week   model.WeekInfo `json:"week"`
	Status string         `json:"status"`
}

// Generate 输入齐全时生成文档；同一时间只允许一个生成任务
func (s *Session) Generate(progress func(render.ProgressEvent)) (Generated, error) {
	if !s.genMu.TryLock() {
		s.mu.Lock()
		s.failLocked(ErrBusy)
		s.mu.Unlock()
		return Generated{}, ErrBusy
	}
	defer s.genMu.Unlock()

	s.mu.Lock()
	if missing := s.missingLocked(); len(missing) > 0 {
		err := &model.InputMissingError{Missing: missing}
		s.failLocked(err)
		s.mu.Unlock()
		return Generated{}, err
	}
	w := s.week.WithLabel(s.effectiveLabelLocked())
	job := render.Job{
		Roster:    append([]model.RosterEntry(nil), s.roster...),
		Week:      w,
		OutputDir: s.outputDir,
		Format:    s.format,
		Progress:  progress,
	}
	source := s.rosterFile
	s.mu.Unlock()

	res, err := s.renderer.Render(job)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		log.Printf("generate failed: %v", err)
		s.failLocked(err)
		return Generated{}, fmt.Errorf("generate %s: %w", job.Format, err)
	}
	status := s.setStatusLocked(fmt.Sprintf(s.msgs.generated, strings.ToUpper(string(res.Format))))
	log.Printf("generated %s (%d employees, week %s)", res.Path, len(job.Roster), w.Label)

	if s.recorder != nil {
		rec := model.GenerationRecord{
			ID:         uuid.NewString(),
			CreatedAt:  time.Now(),
			OutputPath: res.Path,
			Format:     string(res.Format),
			WeekLabel:  w.Label,
			Employees:  len(job.Roster),
			SourceFile: source,
		}
		if err := s.recorder.RecordGeneration(rec); err != nil {
			log.Printf("record generation history failed: %v", err)
		}
	}
	return Generated{Result: res, Week: w, Status: status}, nil
}

// Status 把错误转换为状态栏文字并保存；err 为 nil 时返回当前状态
func (s *Session) Status(err error) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		return s.status
	}
	return s.failLocked(err)
}

func (s *Session) failLocked(err error) string {
	return s.setStatusLocked(s.msgs.statusFor(err))
}

func (s *Session) setStatusLocked(msg string) string {
	s.status = msg
	return msg
}

func (s *Session) effectiveLabelLocked() string {
	if s.label != "" {
		return s.label
	}
	if s.week != nil {
		return s.week.Label
	}
	return ""
}

// missingLocked 缺失的输入项，顺序固定
func (s *Session) missingLocked() []string {
	var missing []string
	if len(s.roster) == 0 {
		missing = append(missing, "roster")
	}
	if s.dates.Start.IsZero() {
		missing = append(missing, "start_date")
	}
	if s.dates.End.IsZero() {
		missing = append(missing, "end_date")
	}
	if s.outputDir == "" {
		missing = append(missing, "output_dir")
	}
	return missing
}

// calendarDay 只保留日历日期
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
