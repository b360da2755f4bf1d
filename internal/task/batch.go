package task

import (
	"context"

	"autogame.dev/internal/config"
	"autogame.dev/internal/logs"
)

// RunBatch runs tasks in order. A failed task does not stop the batch;
// cancellation does, and the remaining tasks are reported as skipped.
func (s *Supervisor) RunBatch(ctx context.Context, tasks []config.Task) (*BatchResult, error) {
	startTime := s.clock.Now()
	result := &BatchResult{
		RunID:   s.opts.RunID,
		Results: make([]*Result, 0, len(tasks)),
	}

	var runErr error
	for i, t := range tasks {
		res, err := s.RunTask(ctx, t)
		result.Results = append(result.Results, res)
		if err != nil {
			runErr = err
			skipRemaining(result, tasks[i+1:])
			break
		}

		if i == len(tasks)-1 || res.Outcome == OutcomeSkipped || res.WaitedInternally {
			continue
		}
		if wait := seconds(t.PostExecutionWait); wait > 0 {
			s.log.Printf("等待 %d 秒后执行下一个任务", t.PostExecutionWait)
			if err := s.clock.Sleep(ctx, wait); err != nil {
				s.log.Printf("等待已中断")
				runErr = interruptedErr(err)
				skipRemaining(result, tasks[i+1:])
				break
			}
		}
	}

	result.Duration = s.clock.Now().Sub(startTime)
	tally(result)
	s.log.Printf("全部任务结束: 成功 %d，失败 %d，跳过 %d，总耗时 %s",
		result.Succeeded, result.Failed, result.Skipped, logs.FormatDuration(result.Duration))
	return result, runErr
}

func skipRemaining(result *BatchResult, rest []config.Task) {
	for _, t := range rest {
		result.Results = append(result.Results, &Result{Key: t.Key, Name: t.Name, Outcome: OutcomeSkipped})
	}
}

// tally fills in the outcome counters
func tally(result *BatchResult) {
	result.Succeeded, result.Failed, result.Skipped = 0, 0, 0
	for _, r := range result.Results {
		switch r.Outcome {
		case OutcomeSuccess:
			result.Succeeded++
		case OutcomeFailed:
			result.Failed++
		default:
			result.Skipped++
		}
	}
	result.Success = result.Failed == 0
}
