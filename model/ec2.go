package model

import (
	"fmt"
	"time"
)

// InstanceState represents an EC2 instance lifecycle state
type InstanceState string

const (
	StatePending      InstanceState = "pending"
	StateRunning      InstanceState = "running"
	StateStopping     InstanceState = "stopping"
	StateStopped      InstanceState = "stopped"
	StateShuttingDown InstanceState = "shutting-down"
	StateTerminated   InstanceState = "terminated"
)

// EBSVolume represents an EBS volume attached to an instance
type EBSVolume struct {
	VolumeID            string `json:"volume_id"`
	SizeGB              int32  `json:"size_gb"`
	VolumeType          string `json:"volume_type"`
	IOPS                *int32 `json:"iops,omitempty"`
	Throughput          *int32 `json:"throughput,omitempty"`
	DeviceName          string `json:"device_name"`
	State               string `json:"state"`
	DeleteOnTermination bool   `json:"delete_on_termination"`
}

// DisplayName returns a display-friendly volume name
func (v EBSVolume) DisplayName() string {
	return fmt.Sprintf("%s %dGB (%s)", v.VolumeType, v.SizeGB, v.VolumeID)
}

// EC2Instance contains instance metadata from the inventory API
type EC2Instance struct {
	InstanceID         string            `json:"instance_id"`
	InstanceType       string            `json:"instance_type"`
	State              InstanceState     `json:"state"`
	Region             string            `json:"region"`
	AvailabilityZone   string            `json:"availability_zone"`
	LaunchTime         time.Time         `json:"launch_time"`
	Platform           string            `json:"platform"`
	VpcID              string            `json:"vpc_id,omitempty"`
	SubnetID           string            `json:"subnet_id,omitempty"`
	PrivateIP          string            `json:"private_ip,omitempty"`
	PublicIP           string            `json:"public_ip,omitempty"`
	Tags               map[string]string `json:"tags,omitempty"`
	SecurityGroups     []string          `json:"security_groups,omitempty"`
	EBSVolumes         []EBSVolume       `json:"ebs_volumes,omitempty"`
	KeyName            string            `json:"key_name,omitempty"`
	IamInstanceProfile string            `json:"iam_instance_profile,omitempty"`
	MonitoringEnabled  bool              `json:"monitoring_enabled"`
	Tenancy            string            `json:"tenancy"`
}

// Name returns the Name tag value, falling back to the instance ID
func (i EC2Instance) Name() string {
	if name, ok := i.Tags["Name"]; ok {
		return name
	}
	return i.InstanceID
}

// IsRunning reports whether the instance is in the running state
func (i EC2Instance) IsRunning() bool {
	return i.State == StateRunning
}

// TotalStorageGB returns the summed size of all attached EBS volumes
func (i EC2Instance) TotalStorageGB() int32 {
	var total int32
	for _, vol := range i.EBSVolumes {
		total += vol.SizeGB
	}
	return total
}

// UptimeHours returns hours since launch, or zero once terminated
func (i EC2Instance) UptimeHours() float64 {
	if i.State == StateTerminated {
		return 0
	}
	return time.Since(i.LaunchTime).Hours()
}

// Tag returns the tag value for key, or def when the tag is absent
func (i EC2Instance) Tag(key, def string) string {
	if v, ok := i.Tags[key]; ok {
		return v
	}
	return def
}
